package raindrop

// Normalizers coerce the upstream's heterogeneous, partially-filled JSON into
// the canonical entity shapes. They are pure functions: normalizing the same
// payload twice yields identical values. A normalizer fails only when a
// required field is missing; merely-absent optional fields map to explicit
// defaults and never propagate as errors.

// DefaultHighlightColor is used when a highlight's color is absent or not in
// the allowed set.
const DefaultHighlightColor = "yellow"

// highlightColors is the upstream's 12-value color palette.
var highlightColors = map[string]bool{
	"blue":   true,
	"brown":  true,
	"cyan":   true,
	"gray":   true,
	"green":  true,
	"indigo": true,
	"orange": true,
	"pink":   true,
	"purple": true,
	"red":    true,
	"teal":   true,
	"yellow": true,
}

// NormalizeHighlightColor returns color when it is one of the allowed 12
// names, DefaultHighlightColor otherwise.
func NormalizeHighlightColor(color string) string {
	if highlightColors[color] {
		return color
	}
	return DefaultHighlightColor
}

func normalizeCollection(raw rawCollection) (Collection, error) {
	if raw.ID == nil {
		return Collection{}, NewValidationError("normalize collection", "missing required field _id")
	}

	c := Collection{
		ID:          *raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Color:       raw.Color,
		Created:     raw.Created,
		LastUpdate:  raw.LastUpdate,
	}
	if raw.Count != nil {
		c.Count = *raw.Count
	}
	if raw.Expanded != nil {
		c.Expanded = *raw.Expanded
	}
	if raw.Public != nil {
		c.Public = *raw.Public
	}
	if raw.Access != nil {
		if raw.Access.Level != nil {
			c.Access.Level = *raw.Access.Level
		}
		if raw.Access.Draggable != nil {
			c.Access.Draggable = *raw.Access.Draggable
		}
	}

	// Parent arrives either nested as {"$id": n} or flat as parentId.
	// "No parent" stays nil so it cannot be confused with parent id 0.
	if raw.Parent != nil && raw.Parent.Valid {
		id := raw.Parent.ID
		c.Parent = &id
	} else if raw.ParentID != nil {
		id := *raw.ParentID
		c.Parent = &id
	}

	return c, nil
}

func normalizeBookmark(raw rawBookmark) (Bookmark, error) {
	if raw.ID == nil {
		return Bookmark{}, NewValidationError("normalize bookmark", "missing required field _id")
	}

	b := Bookmark{
		ID:         *raw.ID,
		Link:       raw.Link,
		Title:      raw.Title,
		Excerpt:    raw.Excerpt,
		Note:       raw.Note,
		Tags:       []string{},
		Created:    raw.Created,
		LastUpdate: raw.LastUpdate,
	}
	if len(raw.Tags) > 0 {
		b.Tags = append(b.Tags, raw.Tags...)
	}
	if raw.Important != nil {
		b.Important = *raw.Important
	}
	if raw.Collection != nil && raw.Collection.Valid {
		b.Collection = raw.Collection.ID
	} else if raw.CollectionID != nil {
		b.Collection = *raw.CollectionID
	}
	if raw.Reminder != nil && raw.Reminder.Date != "" {
		b.Reminder = &Reminder{Date: raw.Reminder.Date, Note: raw.Reminder.Note}
	}

	for _, rh := range raw.Highlights {
		h, err := normalizeHighlight(rh, HighlightRef{
			RaindropID: b.ID,
			Title:      b.Title,
			Link:       b.Link,
			Collection: b.Collection,
		})
		if err != nil {
			// Embedded stubs without ids are dropped, not fatal for the
			// owning bookmark.
			continue
		}
		b.Highlights = append(b.Highlights, h)
	}

	return b, nil
}

// normalizeHighlight builds a canonical Highlight. parent supplies the
// bookmark back-reference for endpoints that omit it from the payload; the
// payload's own linkage wins when present.
func normalizeHighlight(raw rawHighlight, parent HighlightRef) (Highlight, error) {
	if !raw.ID.Valid {
		return Highlight{}, NewValidationError("normalize highlight", "missing required field _id")
	}
	if raw.Text == "" {
		return Highlight{}, NewValidationError("normalize highlight", "highlight text is empty")
	}

	h := Highlight{
		ID:         raw.ID.Val,
		Text:       raw.Text,
		Note:       raw.Note,
		Color:      NormalizeHighlightColor(raw.Color),
		Created:    raw.Created,
		LastUpdate: raw.LastUpdate,
		Raindrop:   parent,
	}

	if raw.RaindropRef != nil && raw.RaindropRef.Valid {
		h.Raindrop.RaindropID = raw.RaindropRef.ID
	} else if raw.Raindrop != nil && raw.Raindrop.Valid {
		h.Raindrop.RaindropID = raw.Raindrop.ID
	}
	if raw.Title != "" {
		h.Raindrop.Title = raw.Title
	}
	if raw.Link != "" {
		h.Raindrop.Link = raw.Link
	}
	if raw.Collection != nil && raw.Collection.Valid {
		h.Raindrop.Collection = raw.Collection.ID
	}

	return h, nil
}

func normalizeTag(raw rawTag) Tag {
	t := Tag{Name: raw.Name}
	if raw.Count != nil && *raw.Count > 0 {
		t.Count = *raw.Count
	}
	return t
}

func normalizeUser(raw rawUser) (User, error) {
	if raw.ID == nil {
		return User{}, NewValidationError("normalize user", "missing required field _id")
	}
	u := User{
		ID:           *raw.ID,
		FullName:     raw.FullName,
		Email:        raw.Email,
		RegisteredAt: raw.RegisteredAt,
	}
	if raw.Pro != nil {
		u.Pro = *raw.Pro
	}
	return u, nil
}
