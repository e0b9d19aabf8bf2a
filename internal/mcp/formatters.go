package mcp

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/raindrop-mcp/internal/raindrop"
)

// Markdown renderers for tool output. Each returns a self-contained
// document the calling model can read without further parsing.

func formatCollections(collections []raindrop.Collection, total, offset int) string {
	var sb strings.Builder

	sb.WriteString("# Collections\n\n")
	if len(collections) == 0 {
		sb.WriteString("No collections found.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Showing %d of %d (offset %d).\n\n", len(collections), total, offset))

	sb.WriteString("| ID | Title | Bookmarks | Parent | Public |\n")
	sb.WriteString("|----|-------|-----------|--------|--------|\n")
	for _, c := range collections {
		parent := "-"
		if c.Parent != nil {
			parent = fmt.Sprintf("%d", *c.Parent)
		}
		public := "no"
		if c.Public {
			public = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %s | %s |\n",
			c.ID, escapeCell(c.Title), c.Count, parent, public))
	}
	return sb.String()
}

func formatCollectionDetail(c raindrop.Collection) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Collection: %s\n\n", c.Title))
	sb.WriteString(fmt.Sprintf("**ID:** %d\n", c.ID))
	if c.Description != "" {
		sb.WriteString(fmt.Sprintf("**Description:** %s\n", c.Description))
	}
	sb.WriteString(fmt.Sprintf("**Bookmarks:** %d\n", c.Count))
	if c.Parent != nil {
		sb.WriteString(fmt.Sprintf("**Parent:** %d\n", *c.Parent))
	}
	if c.Color != "" {
		sb.WriteString(fmt.Sprintf("**Color:** %s\n", c.Color))
	}
	sb.WriteString(fmt.Sprintf("**Public:** %t\n", c.Public))
	if c.Created != "" {
		sb.WriteString(fmt.Sprintf("**Created:** %s\n", c.Created))
	}
	if c.LastUpdate != "" {
		sb.WriteString(fmt.Sprintf("**Updated:** %s\n", c.LastUpdate))
	}
	return sb.String()
}

func formatBookmarks(bookmarks []raindrop.Bookmark, total int64, offset int) string {
	var sb strings.Builder

	sb.WriteString("# Bookmarks\n\n")
	if len(bookmarks) == 0 {
		sb.WriteString("No bookmarks found.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Showing %d of %d (offset %d).\n\n", len(bookmarks), total, offset))

	sb.WriteString("| ID | Title | Link | Tags | Important | Collection |\n")
	sb.WriteString("|----|-------|------|------|-----------|------------|\n")
	for _, b := range bookmarks {
		important := ""
		if b.Important {
			important = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %d |\n",
			b.ID, escapeCell(b.Title), escapeCell(b.Link),
			escapeCell(strings.Join(b.Tags, ", ")), important, b.Collection))
	}
	return sb.String()
}

func formatBookmarkDetail(b raindrop.Bookmark) string {
	var sb strings.Builder

	title := b.Title
	if title == "" {
		title = b.Link
	}
	sb.WriteString(fmt.Sprintf("# Bookmark: %s\n\n", title))
	sb.WriteString(fmt.Sprintf("**ID:** %d\n", b.ID))
	sb.WriteString(fmt.Sprintf("**Link:** %s\n", b.Link))
	if b.Excerpt != "" {
		sb.WriteString(fmt.Sprintf("**Excerpt:** %s\n", b.Excerpt))
	}
	if b.Note != "" {
		sb.WriteString(fmt.Sprintf("**Note:** %s\n", b.Note))
	}
	if len(b.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("**Tags:** %s\n", strings.Join(b.Tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("**Important:** %t\n", b.Important))
	sb.WriteString(fmt.Sprintf("**Collection:** %d\n", b.Collection))
	if b.Reminder != nil {
		sb.WriteString(fmt.Sprintf("**Reminder:** %s", b.Reminder.Date))
		if b.Reminder.Note != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", b.Reminder.Note))
		}
		sb.WriteString("\n")
	}
	if b.Created != "" {
		sb.WriteString(fmt.Sprintf("**Created:** %s\n", b.Created))
	}
	if b.LastUpdate != "" {
		sb.WriteString(fmt.Sprintf("**Updated:** %s\n", b.LastUpdate))
	}

	if len(b.Highlights) > 0 {
		sb.WriteString(fmt.Sprintf("\n## Highlights (%d)\n\n", len(b.Highlights)))
		for _, h := range b.Highlights {
			sb.WriteString(fmt.Sprintf("- [%d] (%s) %s\n", h.ID, h.Color, h.Text))
			if h.Note != "" {
				sb.WriteString(fmt.Sprintf("  Note: %s\n", h.Note))
			}
		}
	}
	return sb.String()
}

func formatTags(tags []raindrop.Tag, total, offset int) string {
	var sb strings.Builder

	sb.WriteString("# Tags\n\n")
	if len(tags) == 0 {
		sb.WriteString("No tags found.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Showing %d of %d (offset %d).\n\n", len(tags), total, offset))

	sb.WriteString("| Tag | Count |\n")
	sb.WriteString("|-----|-------|\n")
	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", escapeCell(t.Name), t.Count))
	}
	return sb.String()
}

func formatHighlights(highlights []raindrop.Highlight) string {
	var sb strings.Builder

	sb.WriteString("# Highlights\n\n")
	if len(highlights) == 0 {
		sb.WriteString("No highlights found.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("%d highlights.\n\n", len(highlights)))

	for _, h := range highlights {
		sb.WriteString(fmt.Sprintf("## [%d] %s\n\n", h.ID, highlightTitle(h)))
		sb.WriteString(fmt.Sprintf("> %s\n\n", h.Text))
		sb.WriteString(fmt.Sprintf("**Color:** %s\n", h.Color))
		if h.Note != "" {
			sb.WriteString(fmt.Sprintf("**Note:** %s\n", h.Note))
		}
		if h.Raindrop.RaindropID != 0 {
			sb.WriteString(fmt.Sprintf("**Bookmark:** %d\n", h.Raindrop.RaindropID))
		}
		if h.Raindrop.Link != "" {
			sb.WriteString(fmt.Sprintf("**Link:** %s\n", h.Raindrop.Link))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func formatHighlightDetail(h raindrop.Highlight) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Highlight %d\n\n", h.ID))
	sb.WriteString(fmt.Sprintf("> %s\n\n", h.Text))
	sb.WriteString(fmt.Sprintf("**Color:** %s\n", h.Color))
	if h.Note != "" {
		sb.WriteString(fmt.Sprintf("**Note:** %s\n", h.Note))
	}
	if h.Raindrop.RaindropID != 0 {
		sb.WriteString(fmt.Sprintf("**Bookmark:** %d\n", h.Raindrop.RaindropID))
	}
	if h.Raindrop.Title != "" {
		sb.WriteString(fmt.Sprintf("**Bookmark Title:** %s\n", h.Raindrop.Title))
	}
	if h.Created != "" {
		sb.WriteString(fmt.Sprintf("**Created:** %s\n", h.Created))
	}
	return sb.String()
}

func formatUser(u raindrop.User) string {
	var sb strings.Builder

	sb.WriteString("# Raindrop.io Account\n\n")
	sb.WriteString(fmt.Sprintf("**ID:** %d\n", u.ID))
	if u.FullName != "" {
		sb.WriteString(fmt.Sprintf("**Name:** %s\n", u.FullName))
	}
	if u.Email != "" {
		sb.WriteString(fmt.Sprintf("**Email:** %s\n", u.Email))
	}
	plan := "Free"
	if u.Pro {
		plan = "Pro"
	}
	sb.WriteString(fmt.Sprintf("**Plan:** %s\n", plan))
	if u.RegisteredAt != "" {
		sb.WriteString(fmt.Sprintf("**Registered:** %s\n", u.RegisteredAt))
	}
	return sb.String()
}

func formatParsedURL(link string, p raindrop.ParsedURL) string {
	var sb strings.Builder

	sb.WriteString("# Parsed URL\n\n")
	sb.WriteString(fmt.Sprintf("**URL:** %s\n", link))
	if p.Title != "" {
		sb.WriteString(fmt.Sprintf("**Title:** %s\n", p.Title))
	}
	if p.Excerpt != "" {
		sb.WriteString(fmt.Sprintf("**Excerpt:** %s\n", p.Excerpt))
	}
	if p.Type != "" {
		sb.WriteString(fmt.Sprintf("**Type:** %s\n", p.Type))
	}
	if len(p.Media) > 0 {
		sb.WriteString("\n## Media\n\n")
		for _, m := range p.Media {
			sb.WriteString(fmt.Sprintf("- %s\n", m))
		}
	}
	return sb.String()
}

func highlightTitle(h raindrop.Highlight) string {
	if h.Raindrop.Title != "" {
		return h.Raindrop.Title
	}
	const max = 60
	t := h.Text
	if len(t) > max {
		t = t[:max] + "..."
	}
	return t
}

// escapeCell keeps pipes and newlines from breaking markdown table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
