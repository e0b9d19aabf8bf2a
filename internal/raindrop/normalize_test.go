package raindrop

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeHighlightColor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"yellow", "yellow"},
		{"teal", "teal"},
		{"indigo", "indigo"},
		{"neon", "yellow"},
		{"YELLOW", "yellow"},
		{"", "yellow"},
	}
	for _, tc := range cases {
		if got := NormalizeHighlightColor(tc.in); got != tc.want {
			t.Errorf("NormalizeHighlightColor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCollection_NestedAndFlatParent(t *testing.T) {
	nested := []byte(`{"_id": 5, "title": "Articles", "parent": {"$id": 12}}`)
	flat := []byte(`{"_id": 5, "title": "Articles", "parentId": 12}`)

	for _, payload := range [][]byte{nested, flat} {
		var raw rawCollection
		if err := json.Unmarshal(payload, &raw); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		c, err := normalizeCollection(raw)
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if c.Parent == nil || *c.Parent != 12 {
			t.Errorf("payload %s: expected parent 12, got %v", payload, c.Parent)
		}
	}
}

func TestNormalizeCollection_BareNumberParent(t *testing.T) {
	var raw rawCollection
	if err := json.Unmarshal([]byte(`{"_id": 5, "parent": 7}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c, err := normalizeCollection(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if c.Parent == nil || *c.Parent != 7 {
		t.Errorf("expected parent 7, got %v", c.Parent)
	}
}

func TestNormalizeCollection_NoParentStaysNil(t *testing.T) {
	var raw rawCollection
	if err := json.Unmarshal([]byte(`{"_id": 3, "title": "Root"}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c, err := normalizeCollection(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// Absent parent must not collapse to id 0.
	if c.Parent != nil {
		t.Errorf("expected nil parent, got %d", *c.Parent)
	}
}

func TestNormalizeCollection_MissingID(t *testing.T) {
	_, err := normalizeCollection(rawCollection{Title: "no id"})
	if err == nil {
		t.Fatal("Expected error for missing _id")
	}
	if KindOf(err) != KindValidation {
		t.Errorf("Expected validation error, got %s", KindOf(err))
	}
}

func TestNormalizeCollection_Idempotent(t *testing.T) {
	var raw rawCollection
	payload := []byte(`{"_id": 9, "title": "Dev", "count": 42, "parent": {"$id": 2}, "public": true}`)
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	first, err := normalizeCollection(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	second, err := normalizeCollection(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Normalizing the same payload twice should yield identical values")
	}
}

func TestNormalizeBookmark_Defaults(t *testing.T) {
	var raw rawBookmark
	if err := json.Unmarshal([]byte(`{"_id": 100, "link": "https://example.com"}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, err := normalizeBookmark(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if b.Tags == nil || len(b.Tags) != 0 {
		t.Errorf("Expected empty non-nil tags, got %#v", b.Tags)
	}
	if b.Important {
		t.Error("Expected important to default false")
	}
}

func TestNormalizeBookmark_CollectionShapes(t *testing.T) {
	nested := []byte(`{"_id": 1, "collection": {"$id": 15}}`)
	flat := []byte(`{"_id": 1, "collectionId": 15}`)

	for _, payload := range [][]byte{nested, flat} {
		var raw rawBookmark
		if err := json.Unmarshal(payload, &raw); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		b, err := normalizeBookmark(raw)
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if b.Collection != 15 {
			t.Errorf("payload %s: expected collection 15, got %d", payload, b.Collection)
		}
	}
}

func TestNormalizeBookmark_EmbeddedHighlightBackref(t *testing.T) {
	payload := []byte(`{
		"_id": 200,
		"link": "https://example.com/article",
		"title": "Article",
		"collection": {"$id": 3},
		"highlights": [
			{"_id": 7, "text": "key passage", "color": "red"},
			{"text": "stub without id"}
		]
	}`)
	var raw rawBookmark
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, err := normalizeBookmark(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(b.Highlights) != 1 {
		t.Fatalf("Expected invalid stub dropped, got %d highlights", len(b.Highlights))
	}
	h := b.Highlights[0]
	if h.Raindrop.RaindropID != 200 || h.Raindrop.Title != "Article" || h.Raindrop.Collection != 3 {
		t.Errorf("Expected backref synthesized from owning bookmark, got %+v", h.Raindrop)
	}
	if h.Color != "red" {
		t.Errorf("Expected color preserved, got %q", h.Color)
	}
}

func TestNormalizeHighlight_PayloadLinkageWins(t *testing.T) {
	var raw rawHighlight
	payload := []byte(`{"_id": 9, "text": "quote", "raindropRef": 555, "title": "Upstream Title"}`)
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	h, err := normalizeHighlight(raw, HighlightRef{RaindropID: 111, Title: "Context Title"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if h.Raindrop.RaindropID != 555 {
		t.Errorf("Expected payload raindrop id 555 to win, got %d", h.Raindrop.RaindropID)
	}
	if h.Raindrop.Title != "Upstream Title" {
		t.Errorf("Expected payload title to win, got %q", h.Raindrop.Title)
	}
}

func TestNormalizeHighlight_StringID(t *testing.T) {
	var raw rawHighlight
	if err := json.Unmarshal([]byte(`{"_id": "42", "text": "quote"}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	h, err := normalizeHighlight(raw, HighlightRef{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if h.ID != 42 {
		t.Errorf("Expected id 42 from digit string, got %d", h.ID)
	}
}

func TestNormalizeHighlight_EmptyText(t *testing.T) {
	var raw rawHighlight
	if err := json.Unmarshal([]byte(`{"_id": 8, "text": ""}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := normalizeHighlight(raw, HighlightRef{}); err == nil {
		t.Fatal("Expected error for empty highlight text")
	}
}

func TestNormalizeUser_MissingID(t *testing.T) {
	if _, err := normalizeUser(rawUser{FullName: "Nobody"}); err == nil {
		t.Fatal("Expected error for missing _id")
	}
}

func TestNormalizeTag_NegativeCountClamped(t *testing.T) {
	n := int64(-3)
	tag := normalizeTag(rawTag{Name: "golang", Count: &n})
	if tag.Count != 0 {
		t.Errorf("Expected negative count clamped to 0, got %d", tag.Count)
	}
}
