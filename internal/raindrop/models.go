package raindrop

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Canonical entity shapes. These are transient DTOs built fresh per call by
// the normalizers; nothing in this package retains them.

// Access describes the caller's access level on a collection.
type Access struct {
	Level     int64 `json:"level"`
	Draggable bool  `json:"draggable"`
}

// Collection is a named folder-like grouping of bookmarks.
type Collection struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Count       int64  `json:"count"`
	Parent      *int64 `json:"parent,omitempty"` // nil means no parent
	Created     string `json:"created"`
	LastUpdate  string `json:"lastUpdate"`
	Expanded    bool   `json:"expanded"`
	Public      bool   `json:"public"`
	Access      Access `json:"access"`
}

// Reminder is an optional date + note attached to a bookmark.
type Reminder struct {
	Date string `json:"date"`
	Note string `json:"note,omitempty"`
}

// Bookmark is a saved link with metadata.
type Bookmark struct {
	ID         int64       `json:"id"`
	Link       string      `json:"link"`
	Title      string      `json:"title"`
	Excerpt    string      `json:"excerpt"`
	Note       string      `json:"note"`
	Tags       []string    `json:"tags"`
	Important  bool        `json:"important"`
	Collection int64       `json:"collection"`
	Created    string      `json:"created"`
	LastUpdate string      `json:"lastUpdate"`
	Reminder   *Reminder   `json:"reminder,omitempty"`
	Highlights []Highlight `json:"highlights,omitempty"`
}

// HighlightRef is the back-reference from a highlight to its bookmark.
// The upstream highlight endpoints are inconsistent about echoing this, so
// the normalizer synthesizes it from caller context when absent.
type HighlightRef struct {
	RaindropID int64  `json:"raindropId"`
	Title      string `json:"title,omitempty"`
	Link       string `json:"link,omitempty"`
	Collection int64  `json:"collection,omitempty"`
}

// Highlight is a saved excerpt of text associated with a bookmark.
type Highlight struct {
	ID         int64        `json:"id"`
	Text       string       `json:"text"`
	Note       string       `json:"note"`
	Color      string       `json:"color"`
	Created    string       `json:"created"`
	LastUpdate string       `json:"lastUpdate"`
	Raindrop   HighlightRef `json:"raindrop"`
}

// Tag is a free-text label with its usage count.
type Tag struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// User is the authenticated Raindrop.io account.
type User struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Pro          bool   `json:"pro"`
	RegisteredAt string `json:"registeredAt"`
}

// ref handles the upstream's two shapes for related ids: sometimes nested as
// {"$id": n}, sometimes a bare number.
type ref struct {
	ID    int64
	Valid bool
}

func (r *ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var nested struct {
			ID *int64 `json:"$id"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		if nested.ID != nil {
			r.ID = *nested.ID
			r.Valid = true
		}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	r.ID = n
	r.Valid = true
	return nil
}

// flexInt64 accepts a JSON number or a string of digits. Some upstream
// endpoints serialize highlight ids both ways.
type flexInt64 struct {
	Val   int64
	Valid bool
}

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Non-numeric string id: leave invalid, normalizer decides.
			return nil
		}
		f.Val = n
		f.Valid = true
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	f.Val = n
	f.Valid = true
	return nil
}

// Raw upstream shapes. Optional fields are pointers so "absent" stays
// distinguishable from the zero value; normalizers resolve the defaults.

type rawAccess struct {
	Level     *int64 `json:"level"`
	Draggable *bool  `json:"draggable"`
}

type rawCollection struct {
	ID          *int64     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Count       *int64     `json:"count"`
	Parent      *ref       `json:"parent"`
	ParentID    *int64     `json:"parentId"`
	Created     string     `json:"created"`
	LastUpdate  string     `json:"lastUpdate"`
	Expanded    *bool      `json:"expanded"`
	Public      *bool      `json:"public"`
	Access      *rawAccess `json:"access"`
}

type rawReminder struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

type rawBookmark struct {
	ID           *int64         `json:"_id"`
	Link         string         `json:"link"`
	Title        string         `json:"title"`
	Excerpt      string         `json:"excerpt"`
	Note         string         `json:"note"`
	Tags         []string       `json:"tags"`
	Important    *bool          `json:"important"`
	Collection   *ref           `json:"collection"`
	CollectionID *int64         `json:"collectionId"`
	Created      string         `json:"created"`
	LastUpdate   string         `json:"lastUpdate"`
	Reminder     *rawReminder   `json:"reminder"`
	Highlights   []rawHighlight `json:"highlights"`
}

type rawHighlight struct {
	ID         flexInt64 `json:"_id"`
	Text       string    `json:"text"`
	Note       string    `json:"note"`
	Color      string    `json:"color"`
	Created    string    `json:"created"`
	LastUpdate string    `json:"lastUpdate"`
	// Global listing shape: linkage echoed inline.
	RaindropRef *ref   `json:"raindropRef"`
	Raindrop    *ref   `json:"raindrop"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Collection  *ref   `json:"collectionId"`
}

type rawTag struct {
	Name  string `json:"_id"`
	Count *int64 `json:"count"`
}

type rawUser struct {
	ID           *int64 `json:"_id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Pro          *bool  `json:"pro"`
	RegisteredAt string `json:"registered"`
}
