package raindrop

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type bookmarkListResponse struct {
	Result bool          `json:"result"`
	Items  []rawBookmark `json:"items"`
	Count  int64         `json:"count"`
}

type bookmarkItemResponse struct {
	Result bool        `json:"result"`
	Item   rawBookmark `json:"item"`
}

// SearchResult is one page of bookmarks plus the upstream's total count.
type SearchResult struct {
	Bookmarks []Bookmark
	Total     int64
}

// SearchParams controls a bookmark search. Page is 1-indexed; PerPage caps
// the page size.
type SearchParams struct {
	Collection int64
	Search     string
	Tag        string
	Important  bool
	Sort       string
	Page       int
	PerPage    int
}

// SearchBookmarks queries bookmarks in a collection (CollectionAll for
// everything). Pagination parameters are forwarded to the upstream query.
func (c *Client) SearchBookmarks(ctx context.Context, params SearchParams) (SearchResult, error) {
	query := url.Values{}
	search := params.Search
	if params.Tag != "" {
		search = fmt.Sprintf("%s #%q", search, params.Tag)
	}
	if params.Important {
		search += " important:true"
	}
	if s := strings.TrimSpace(search); s != "" {
		query.Set("search", s)
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("perpage", strconv.Itoa(params.PerPage))
	}

	var resp bookmarkListResponse
	if err := c.get(ctx, fmt.Sprintf("/raindrops/%d", params.Collection), query, &resp); err != nil {
		return SearchResult{}, err
	}

	bookmarks := make([]Bookmark, 0, len(resp.Items))
	for _, raw := range resp.Items {
		b, err := normalizeBookmark(raw)
		if err != nil {
			return SearchResult{}, err
		}
		bookmarks = append(bookmarks, b)
	}
	return SearchResult{Bookmarks: bookmarks, Total: resp.Count}, nil
}

// GetBookmark fetches a single bookmark by id, embedded highlights included.
func (c *Client) GetBookmark(ctx context.Context, id int64) (Bookmark, error) {
	var resp bookmarkItemResponse
	if err := c.get(ctx, fmt.Sprintf("/raindrop/%d", id), nil, &resp); err != nil {
		return Bookmark{}, err
	}
	return normalizeBookmark(resp.Item)
}

// BookmarkParams carries the optional fields for bookmark create/update.
type BookmarkParams struct {
	Link         *string
	Title        *string
	Excerpt      *string
	Note         *string
	Tags         []string
	Important    *bool
	Collection   *int64
	ReminderDate *string
	ReminderNote *string
}

func (p BookmarkParams) body() map[string]any {
	body := map[string]any{}
	if p.Link != nil {
		body["link"] = *p.Link
	}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Excerpt != nil {
		body["excerpt"] = *p.Excerpt
	}
	if p.Note != nil {
		body["note"] = *p.Note
	}
	if p.Tags != nil {
		body["tags"] = p.Tags
	}
	if p.Important != nil {
		body["important"] = *p.Important
	}
	if p.Collection != nil {
		body["collection"] = map[string]any{"$id": *p.Collection}
	}
	if p.ReminderDate != nil {
		reminder := map[string]any{"date": *p.ReminderDate}
		if p.ReminderNote != nil {
			reminder["note"] = *p.ReminderNote
		}
		body["reminder"] = reminder
	}
	return body
}

// CreateBookmark saves a new bookmark. Link is required; the caller
// validates that before any network round-trip.
func (c *Client) CreateBookmark(ctx context.Context, params BookmarkParams) (Bookmark, error) {
	var resp bookmarkItemResponse
	if err := c.post(ctx, "/raindrop", params.body(), &resp); err != nil {
		return Bookmark{}, err
	}
	return normalizeBookmark(resp.Item)
}

// UpdateBookmark applies the non-nil fields of params to an existing
// bookmark.
func (c *Client) UpdateBookmark(ctx context.Context, id int64, params BookmarkParams) (Bookmark, error) {
	var resp bookmarkItemResponse
	if err := c.put(ctx, fmt.Sprintf("/raindrop/%d", id), params.body(), &resp); err != nil {
		return Bookmark{}, err
	}
	return normalizeBookmark(resp.Item)
}

// DeleteBookmark moves a bookmark to trash. Deleting a bookmark already in
// trash removes it permanently.
func (c *Client) DeleteBookmark(ctx context.Context, id int64) (bool, error) {
	var resp resultResponse
	if err := c.del(ctx, fmt.Sprintf("/raindrop/%d", id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}

// BatchUpdateBookmarks applies one update body to many bookmarks in a single
// upstream call. The collection scopes which bookmarks the ids may address
// (CollectionAll for no scoping).
func (c *Client) BatchUpdateBookmarks(ctx context.Context, collection int64, ids []int64, fields map[string]any) (bool, error) {
	body := map[string]any{"ids": ids}
	for k, v := range fields {
		body[k] = v
	}
	var resp resultResponse
	if err := c.put(ctx, fmt.Sprintf("/raindrops/%d", collection), body, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}

// BatchDeleteBookmarks moves many bookmarks to trash in one call. Pass
// CollectionTrash to delete permanently.
func (c *Client) BatchDeleteBookmarks(ctx context.Context, collection int64, ids []int64) (bool, error) {
	body := map[string]any{"ids": ids}
	var resp resultResponse
	if err := c.del(ctx, fmt.Sprintf("/raindrops/%d", collection), body, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}

// BatchModifyTags adds or removes tags across many bookmarks. The current
// tag list of every bookmark is fetched concurrently first; if any fetch
// fails, the whole batch fails before a single write happens (no partial
// commit). Writes then run sequentially, computing an idempotent set union
// (add) or difference (remove) per bookmark. Write failures are collected
// into one aggregate error rather than reported per id.
func (c *Client) BatchModifyTags(ctx context.Context, ids []int64, tags []string, remove bool) error {
	op := "batch modify tags"

	current := make([][]string, len(ids))
	fetchErrs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			b, err := c.GetBookmark(ctx, id)
			if err != nil {
				fetchErrs[i] = fmt.Errorf("bookmark %d: %w", id, err)
				return
			}
			current[i] = b.Tags
		}(i, id)
	}
	wg.Wait()

	var failed []error
	for _, err := range fetchErrs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return NewAggregateError(op, failed)
	}

	for i, id := range ids {
		var next []string
		if remove {
			next = tagDifference(current[i], tags)
		} else {
			next = tagUnion(current[i], tags)
		}
		if _, err := c.UpdateBookmark(ctx, id, BookmarkParams{Tags: next}); err != nil {
			failed = append(failed, fmt.Errorf("bookmark %d: %w", id, err))
		}
	}
	if len(failed) > 0 {
		return NewAggregateError(op, failed)
	}
	return nil
}

// tagUnion merges two tag lists into a deduplicated, sorted set.
func tagUnion(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// tagDifference removes every tag in b from a, deduplicating the result.
func tagDifference(a, b []string) []string {
	drop := make(map[string]bool, len(b))
	for _, t := range b {
		drop[t] = true
	}
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a))
	for _, t := range a {
		if drop[t] || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
