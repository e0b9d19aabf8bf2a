package raindrop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestListTags_Scoping(t *testing.T) {
	var gotPath string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"items": []any{
				map[string]any{"_id": "golang", "count": 12},
				map[string]any{"_id": "reading", "count": 3},
			},
		})
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)

	tags, err := c.ListTags(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotPath != "/tags" {
		t.Errorf("Expected /tags for unscoped listing, got %s", gotPath)
	}
	if len(tags) != 2 || tags[0].Name != "golang" || tags[0].Count != 12 {
		t.Errorf("Unexpected tags: %+v", tags)
	}

	scope := int64(7)
	if _, err := c.ListTags(context.Background(), &scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotPath != "/tags/7" {
		t.Errorf("Expected /tags/7 for scoped listing, got %s", gotPath)
	}
}

func TestRenameTag_RequestShape(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	ok, err := c.RenameTag(context.Background(), nil, "golnag", "golang")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ok {
		t.Error("Expected result true")
	}
	if gotMethod != http.MethodPut || gotPath != "/tags" {
		t.Errorf("Expected PUT /tags, got %s %s", gotMethod, gotPath)
	}
	if gotBody["replace"] != "golang" {
		t.Errorf("Expected replace=golang, got %v", gotBody["replace"])
	}
	if !reflect.DeepEqual(gotBody["tags"], []any{"golnag"}) {
		t.Errorf("Expected tags=[golnag], got %v", gotBody["tags"])
	}
}

func TestMergeTags_RequestShape(t *testing.T) {
	var gotBody map[string]any
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	if _, err := c.MergeTags(context.Background(), nil, []string{"go", "glang"}, "golang"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotBody["replace"] != "golang" {
		t.Errorf("Expected replace=golang, got %v", gotBody["replace"])
	}
	if !reflect.DeepEqual(gotBody["tags"], []any{"go", "glang"}) {
		t.Errorf("Expected both sources, got %v", gotBody["tags"])
	}
}

func TestDeleteTags_RequestShape(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	}))
	defer mockServer.Close()

	scope := int64(3)
	c := newTestClient(t, mockServer.URL)
	if _, err := c.DeleteTags(context.Background(), &scope, []string{"stale"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", gotMethod)
	}
	if !reflect.DeepEqual(gotBody["tags"], []any{"stale"}) {
		t.Errorf("Expected tags=[stale], got %v", gotBody["tags"])
	}
}
