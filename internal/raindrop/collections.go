package raindrop

import (
	"context"
	"fmt"
)

// Well-known collection ids on the upstream API.
const (
	// CollectionAll addresses bookmarks across every collection.
	CollectionAll int64 = 0
	// CollectionUnsorted holds bookmarks saved without a collection.
	CollectionUnsorted int64 = -1
	// CollectionTrash holds deleted bookmarks; deleting from here is
	// permanent.
	CollectionTrash int64 = -99
)

type collectionListResponse struct {
	Result bool            `json:"result"`
	Items  []rawCollection `json:"items"`
}

type collectionItemResponse struct {
	Result bool          `json:"result"`
	Item   rawCollection `json:"item"`
}

type resultResponse struct {
	Result bool `json:"result"`
}

// ListRootCollections fetches top-level collections.
func (c *Client) ListRootCollections(ctx context.Context) ([]Collection, error) {
	return c.listCollections(ctx, "/collections")
}

// ListChildCollections fetches nested collections (everything below the
// root level).
func (c *Client) ListChildCollections(ctx context.Context) ([]Collection, error) {
	return c.listCollections(ctx, "/collections/childrens")
}

func (c *Client) listCollections(ctx context.Context, path string) ([]Collection, error) {
	var resp collectionListResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	collections := make([]Collection, 0, len(resp.Items))
	for _, raw := range resp.Items {
		col, err := normalizeCollection(raw)
		if err != nil {
			return nil, err
		}
		collections = append(collections, col)
	}
	return collections, nil
}

// GetCollection fetches a single collection by id.
func (c *Client) GetCollection(ctx context.Context, id int64) (Collection, error) {
	var resp collectionItemResponse
	if err := c.get(ctx, fmt.Sprintf("/collection/%d", id), nil, &resp); err != nil {
		return Collection{}, err
	}
	return normalizeCollection(resp.Item)
}

// CollectionParams carries the optional fields for collection create/update.
// Nil fields are omitted from the request so the upstream keeps its current
// values.
type CollectionParams struct {
	Title       *string
	Description *string
	Color       *string
	Parent      *int64
	Expanded    *bool
	Public      *bool
}

func (p CollectionParams) body() map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Color != nil {
		body["color"] = *p.Color
	}
	if p.Parent != nil {
		body["parent"] = map[string]any{"$id": *p.Parent}
	}
	if p.Expanded != nil {
		body["expanded"] = *p.Expanded
	}
	if p.Public != nil {
		body["public"] = *p.Public
	}
	return body
}

// CreateCollection creates a new collection. Title is required; the caller
// validates that before any network round-trip.
func (c *Client) CreateCollection(ctx context.Context, params CollectionParams) (Collection, error) {
	var resp collectionItemResponse
	if err := c.post(ctx, "/collection", params.body(), &resp); err != nil {
		return Collection{}, err
	}
	return normalizeCollection(resp.Item)
}

// UpdateCollection applies the non-nil fields of params to an existing
// collection.
func (c *Client) UpdateCollection(ctx context.Context, id int64, params CollectionParams) (Collection, error) {
	var resp collectionItemResponse
	if err := c.put(ctx, fmt.Sprintf("/collection/%d", id), params.body(), &resp); err != nil {
		return Collection{}, err
	}
	return normalizeCollection(resp.Item)
}

// DeleteCollection removes a collection; its bookmarks move to trash
// upstream. There is nothing left to return, so success is a boolean.
func (c *Client) DeleteCollection(ctx context.Context, id int64) (bool, error) {
	var resp resultResponse
	if err := c.del(ctx, fmt.Sprintf("/collection/%d", id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}
