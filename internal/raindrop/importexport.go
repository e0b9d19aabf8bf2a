package raindrop

import (
	"context"
	"fmt"
	"net/url"
)

// ParsedURL is the metadata the upstream extracts from an arbitrary URL
// before saving it as a bookmark.
type ParsedURL struct {
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt"`
	Type    string   `json:"type"`
	Media   []string `json:"media"`
}

type parseURLResponse struct {
	Result bool `json:"result"`
	Item   struct {
		Title   string `json:"title"`
		Excerpt string `json:"excerpt"`
		Type    string `json:"type"`
		Media   []struct {
			Link string `json:"link"`
		} `json:"media"`
	} `json:"item"`
}

// ParseURL asks the upstream to extract title, excerpt, and media for a URL.
// Useful before creating a bookmark.
func (c *Client) ParseURL(ctx context.Context, link string) (ParsedURL, error) {
	body := map[string]any{"url": link}
	var resp parseURLResponse
	if err := c.post(ctx, "/import/url/parse", body, &resp); err != nil {
		return ParsedURL{}, err
	}

	parsed := ParsedURL{
		Title:   resp.Item.Title,
		Excerpt: resp.Item.Excerpt,
		Type:    resp.Item.Type,
		Media:   []string{},
	}
	for _, m := range resp.Item.Media {
		if m.Link != "" {
			parsed.Media = append(parsed.Media, m.Link)
		}
	}
	return parsed, nil
}

// ExportFormats are the file formats the upstream can export a collection
// to.
var ExportFormats = map[string]bool{
	"csv":  true,
	"html": true,
	"zip":  true,
}

// ExportURL builds the download URL for a collection export. The export is
// served by the upstream directly, so the result is a pointer to a
// separately addressable resource rather than inline data.
func (c *Client) ExportURL(collection int64, format string) (string, error) {
	if !ExportFormats[format] {
		return "", NewValidationError("export bookmarks",
			fmt.Sprintf("unsupported export format %q (use csv, html, or zip)", format))
	}
	return fmt.Sprintf("%s/raindrops/%d/export.%s?sort=-created", c.baseURL, collection, url.PathEscape(format)), nil
}
