package raindrop

import (
	"context"
	"fmt"
)

type tagListResponse struct {
	Result bool     `json:"result"`
	Items  []rawTag `json:"items"`
}

// tagsPath scopes a tag operation to one collection, or to all collections
// when scope is nil.
func tagsPath(scope *int64) string {
	if scope == nil {
		return "/tags"
	}
	return fmt.Sprintf("/tags/%d", *scope)
}

// ListTags fetches tags with their usage counts, optionally scoped to one
// collection.
func (c *Client) ListTags(ctx context.Context, scope *int64) ([]Tag, error) {
	var resp tagListResponse
	if err := c.get(ctx, tagsPath(scope), nil, &resp); err != nil {
		return nil, err
	}

	tags := make([]Tag, 0, len(resp.Items))
	for _, raw := range resp.Items {
		tags = append(tags, normalizeTag(raw))
	}
	return tags, nil
}

// RenameTag renames a single tag. Omitting the scope renames it across all
// collections.
func (c *Client) RenameTag(ctx context.Context, scope *int64, oldName, newName string) (bool, error) {
	body := map[string]any{
		"replace": newName,
		"tags":    []string{oldName},
	}
	var resp resultResponse
	if err := c.put(ctx, tagsPath(scope), body, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}

// MergeTags collapses N source tags into one destination name. The upstream
// treats this as the same replace call as rename, just with multiple
// sources.
func (c *Client) MergeTags(ctx context.Context, scope *int64, sources []string, dest string) (bool, error) {
	body := map[string]any{
		"replace": dest,
		"tags":    sources,
	}
	var resp resultResponse
	if err := c.put(ctx, tagsPath(scope), body, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}

// DeleteTags removes one or many tags from every bookmark carrying them.
func (c *Client) DeleteTags(ctx context.Context, scope *int64, tags []string) (bool, error) {
	body := map[string]any{"tags": tags}
	var resp resultResponse
	if err := c.del(ctx, tagsPath(scope), body, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}
