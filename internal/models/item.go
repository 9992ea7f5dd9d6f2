package models

// Item represents one entry in a user's collection.
type Item struct {
	// ID is the unique identifier for the item.
	ID int64 `json:"id"`

	Title string `json:"title"`

	// ImageURL is optional; nil when the item has no cover.
	ImageURL *string `json:"image_url"`

	CategoryID int64 `json:"category_id"`

	// UserID is the owner of the item.
	UserID int64 `json:"user_id"`

	// Tags are the names of the associated tags, as reported by the API.
	Tags []string `json:"tags"`

	// Creators are the names of the associated creators, as reported by the API.
	Creators []string `json:"creators"`
}

// Clone returns a deep copy so callers can hand out items without sharing
// the name slices.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.ImageURL != nil {
		url := *i.ImageURL
		c.ImageURL = &url
	}
	c.Tags = append([]string(nil), i.Tags...)
	c.Creators = append([]string(nil), i.Creators...)
	return &c
}
