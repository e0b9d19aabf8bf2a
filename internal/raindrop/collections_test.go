package raindrop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCollection_ParentAsNestedRef(t *testing.T) {
	var gotBody map[string]any
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collection" {
			t.Errorf("Expected POST /collection, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"item":   map[string]any{"_id": 50, "title": "Nested", "parent": map[string]any{"$id": 12}},
		})
	}))
	defer mockServer.Close()

	title := "Nested"
	parent := int64(12)
	c := newTestClient(t, mockServer.URL)
	created, err := c.CreateCollection(context.Background(), CollectionParams{Title: &title, Parent: &parent})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	nested, ok := gotBody["parent"].(map[string]any)
	if !ok || nested["$id"] != float64(12) {
		t.Errorf("Expected parent sent as {\"$id\": 12}, got %v", gotBody["parent"])
	}
	if created.Parent == nil || *created.Parent != 12 {
		t.Errorf("Expected parent 12 on result, got %v", created.Parent)
	}
}

func TestUpdateCollection_OmitsUnsetFields(t *testing.T) {
	var gotBody map[string]any
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"item":   map[string]any{"_id": 7, "title": "Renamed"},
		})
	}))
	defer mockServer.Close()

	title := "Renamed"
	c := newTestClient(t, mockServer.URL)
	if _, err := c.UpdateCollection(context.Background(), 7, CollectionParams{Title: &title}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gotBody) != 1 {
		t.Errorf("Expected only title in body, got %v", gotBody)
	}
}

func TestDeleteCollection(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/collection/7" {
			t.Errorf("Expected DELETE /collection/7, got %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	ok, err := c.DeleteCollection(context.Background(), 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ok {
		t.Error("Expected result true")
	}
}
