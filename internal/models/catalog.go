package models

// Tag is an entry of the global tag catalog.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Creator is an entry of the global creator catalog (author, studio, director).
type Creator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category groups a user's items ("Game", "Book").
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"user_id,omitempty"`
}

// EntryID implements selection.Entry.
func (t Tag) EntryID() int64 { return t.ID }

// EntryName implements selection.Entry.
func (t Tag) EntryName() string { return t.Name }

// EntryID implements selection.Entry.
func (c Creator) EntryID() int64 { return c.ID }

// EntryName implements selection.Entry.
func (c Creator) EntryName() string { return c.Name }
