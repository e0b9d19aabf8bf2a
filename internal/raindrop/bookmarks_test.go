package raindrop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestSearchBookmarks_QueryShape(t *testing.T) {
	var gotPath, gotSearch, gotSort, gotPage, gotPerPage string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		gotSort = r.URL.Query().Get("sort")
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("perpage")
		json.NewEncoder(w).Encode(map[string]any{"result": true, "items": []any{}, "count": 0})
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	_, err := c.SearchBookmarks(context.Background(), SearchParams{
		Collection: 12,
		Search:     "golang",
		Tag:        "reading list",
		Important:  true,
		Sort:       "-created",
		Page:       3,
		PerPage:    25,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotPath != "/raindrops/12" {
		t.Errorf("Expected path /raindrops/12, got %s", gotPath)
	}
	if !strings.Contains(gotSearch, "golang") {
		t.Errorf("Expected search text forwarded, got %q", gotSearch)
	}
	if !strings.Contains(gotSearch, `#"reading list"`) {
		t.Errorf("Expected quoted tag filter, got %q", gotSearch)
	}
	if !strings.Contains(gotSearch, "important:true") {
		t.Errorf("Expected important filter, got %q", gotSearch)
	}
	if gotSort != "-created" || gotPage != "3" || gotPerPage != "25" {
		t.Errorf("Expected sort/page/perpage forwarded, got %q/%q/%q", gotSort, gotPage, gotPerPage)
	}
}

func TestCreateBookmark_BodyShape(t *testing.T) {
	var gotBody map[string]any
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/raindrop" {
			t.Errorf("Expected POST /raindrop, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"item":   map[string]any{"_id": 900, "link": "https://example.com"},
		})
	}))
	defer mockServer.Close()

	link := "https://example.com"
	collection := int64(15)
	c := newTestClient(t, mockServer.URL)
	b, err := c.CreateBookmark(context.Background(), BookmarkParams{
		Link:       &link,
		Tags:       []string{"go"},
		Collection: &collection,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.ID != 900 {
		t.Errorf("Expected id 900, got %d", b.ID)
	}

	nested, ok := gotBody["collection"].(map[string]any)
	if !ok || nested["$id"] != float64(15) {
		t.Errorf("Expected collection sent as {\"$id\": 15}, got %v", gotBody["collection"])
	}
	if gotBody["link"] != "https://example.com" {
		t.Errorf("Expected link in body, got %v", gotBody["link"])
	}
}

func TestBatchModifyTags_Union(t *testing.T) {
	var mu sync.Mutex
	writes := map[string][]string{}

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id := strings.TrimPrefix(r.URL.Path, "/raindrop/")
			tags := []string{"existing"}
			if id == "2" {
				tags = []string{"existing", "shared"}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"item":   map[string]any{"_id": jsonNumber(id), "tags": tags},
			})
		case http.MethodPut:
			var body struct {
				Tags []string `json:"tags"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			writes[strings.TrimPrefix(r.URL.Path, "/raindrop/")] = body.Tags
			mu.Unlock()
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"item":   map[string]any{"_id": 1},
			})
		}
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	if err := c.BatchModifyTags(context.Background(), []int64{1, 2}, []string{"shared", "new"}, false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want1 := []string{"existing", "new", "shared"}
	if !reflect.DeepEqual(writes["1"], want1) {
		t.Errorf("bookmark 1: expected %v, got %v", want1, writes["1"])
	}
	// Already-present tags do not duplicate.
	if !reflect.DeepEqual(writes["2"], want1) {
		t.Errorf("bookmark 2: expected %v, got %v", want1, writes["2"])
	}
}

func TestBatchModifyTags_Remove(t *testing.T) {
	var written []string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"item":   map[string]any{"_id": 1, "tags": []string{"keep", "drop", "also-drop"}},
			})
		case http.MethodPut:
			var body struct {
				Tags []string `json:"tags"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			written = body.Tags
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"item":   map[string]any{"_id": 1},
			})
		}
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	if err := c.BatchModifyTags(context.Background(), []int64{1}, []string{"drop", "also-drop", "absent"}, true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(written, []string{"keep"}) {
		t.Errorf("Expected [keep], got %v", written)
	}
}

func TestBatchModifyTags_FetchFailureBlocksAllWrites(t *testing.T) {
	var puts int
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if strings.HasSuffix(r.URL.Path, "/2") {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"result": false, "errorMessage": "not found"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"item":   map[string]any{"_id": 1, "tags": []string{}},
			})
		case http.MethodPut:
			puts++
			json.NewEncoder(w).Encode(map[string]any{"result": true, "item": map[string]any{"_id": 1}})
		}
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	err := c.BatchModifyTags(context.Background(), []int64{1, 2}, []string{"x"}, false)
	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	if KindOf(err) != KindAggregate {
		t.Errorf("Expected aggregate kind, got %s", KindOf(err))
	}
	if puts != 0 {
		t.Errorf("Expected no writes after fetch failure, got %d", puts)
	}
}

func TestBatchModifyTags_WriteFailuresAggregated(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{
				"result": true,
				"item":   map[string]any{"_id": 1, "tags": []string{}},
			})
		case http.MethodPut:
			if strings.HasSuffix(r.URL.Path, "/2") {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"result": true, "item": map[string]any{"_id": 1}})
		}
	}))
	defer mockServer.Close()

	c := newTestClient(t, mockServer.URL)
	err := c.BatchModifyTags(context.Background(), []int64{1, 2, 3}, []string{"x"}, false)
	if err == nil {
		t.Fatal("Expected aggregate error for partial write failure")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if len(apiErr.Errs) != 1 {
		t.Errorf("Expected 1 wrapped failure, got %d", len(apiErr.Errs))
	}
	if !strings.Contains(err.Error(), "bookmark 2") {
		t.Errorf("Expected failing id named in error, got: %v", err)
	}
}

func TestTagUnionAndDifference(t *testing.T) {
	got := tagUnion([]string{"b", "a"}, []string{"a", "c"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("tagUnion = %v", got)
	}
	// Applying the same union twice changes nothing.
	if again := tagUnion(got, []string{"a", "c"}); !reflect.DeepEqual(again, got) {
		t.Errorf("tagUnion not idempotent: %v", again)
	}

	diff := tagDifference([]string{"a", "b", "b", "c"}, []string{"b"})
	if !reflect.DeepEqual(diff, []string{"a", "c"}) {
		t.Errorf("tagDifference = %v", diff)
	}
}

// jsonNumber turns a decimal path segment back into a JSON number for fakes.
func jsonNumber(s string) json.Number { return json.Number(s) }
