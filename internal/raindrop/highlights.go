package raindrop

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type highlightListResponse struct {
	Result bool           `json:"result"`
	Items  []rawHighlight `json:"items"`
}

// ListHighlights fetches highlights across all bookmarks, paginated.
func (c *Client) ListHighlights(ctx context.Context, page, perPage int) ([]Highlight, error) {
	return c.listHighlights(ctx, "/highlights", page, perPage)
}

// ListCollectionHighlights fetches highlights for bookmarks in one
// collection, paginated.
func (c *Client) ListCollectionHighlights(ctx context.Context, collectionID int64, page, perPage int) ([]Highlight, error) {
	return c.listHighlights(ctx, fmt.Sprintf("/highlights/%d", collectionID), page, perPage)
}

func (c *Client) listHighlights(ctx context.Context, path string, page, perPage int) ([]Highlight, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		query.Set("perpage", strconv.Itoa(perPage))
	}

	var resp highlightListResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}

	highlights := make([]Highlight, 0, len(resp.Items))
	for _, raw := range resp.Items {
		h, err := normalizeHighlight(raw, HighlightRef{})
		if err != nil {
			return nil, err
		}
		highlights = append(highlights, h)
	}
	return highlights, nil
}

// ListBookmarkHighlights fetches the highlights of one bookmark. A 404 is
// treated as "no highlights exist yet" and yields an empty list.
func (c *Client) ListBookmarkHighlights(ctx context.Context, raindropID int64) ([]Highlight, error) {
	b, err := c.GetBookmark(ctx, raindropID)
	if err != nil {
		if IsNotFound(err) {
			return []Highlight{}, nil
		}
		return nil, err
	}
	if b.Highlights == nil {
		return []Highlight{}, nil
	}
	return b.Highlights, nil
}

// CreateHighlight adds a highlight to a bookmark. Text must be non-empty
// (validated by the caller before any network call); an out-of-palette color
// falls back to the default.
func (c *Client) CreateHighlight(ctx context.Context, raindropID int64, text, note, color string) (Highlight, error) {
	entry := map[string]any{
		"text":  text,
		"color": NormalizeHighlightColor(color),
	}
	if note != "" {
		entry["note"] = note
	}
	body := map[string]any{"highlights": []any{entry}}

	var resp bookmarkItemResponse
	if err := c.put(ctx, fmt.Sprintf("/raindrop/%d", raindropID), body, &resp); err != nil {
		return Highlight{}, err
	}
	b, err := normalizeBookmark(resp.Item)
	if err != nil {
		return Highlight{}, err
	}
	if len(b.Highlights) == 0 {
		return Highlight{}, &Error{
			Kind:    KindUpstream,
			Op:      "create highlight",
			Message: fmt.Sprintf("bookmark %d echoed no highlights after create", raindropID),
		}
	}
	// The upstream appends new highlights; the last one is ours.
	return b.Highlights[len(b.Highlights)-1], nil
}

// UpdateHighlight changes the text, note, or color of an existing highlight.
// Nil fields are left untouched.
func (c *Client) UpdateHighlight(ctx context.Context, raindropID, highlightID int64, text, note, color *string) (Highlight, error) {
	entry := map[string]any{"_id": highlightID}
	if text != nil {
		entry["text"] = *text
	}
	if note != nil {
		entry["note"] = *note
	}
	if color != nil {
		entry["color"] = NormalizeHighlightColor(*color)
	}
	body := map[string]any{"highlights": []any{entry}}

	var resp bookmarkItemResponse
	if err := c.put(ctx, fmt.Sprintf("/raindrop/%d", raindropID), body, &resp); err != nil {
		return Highlight{}, err
	}
	b, err := normalizeBookmark(resp.Item)
	if err != nil {
		return Highlight{}, err
	}
	for _, h := range b.Highlights {
		if h.ID == highlightID {
			return h, nil
		}
	}
	return Highlight{}, &Error{
		Kind:    KindNotFound,
		Op:      "update highlight",
		Message: fmt.Sprintf("highlight %d not found on bookmark %d", highlightID, raindropID),
	}
}

// DeleteHighlight removes a highlight from a bookmark. The upstream deletes
// a highlight when its text is set to the empty string.
func (c *Client) DeleteHighlight(ctx context.Context, raindropID, highlightID int64) (bool, error) {
	body := map[string]any{
		"highlights": []any{map[string]any{"_id": highlightID, "text": ""}},
	}
	var resp resultResponse
	if err := c.put(ctx, fmt.Sprintf("/raindrop/%d", raindropID), body, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}
