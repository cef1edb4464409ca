package domain

import "time"

// Well-known content block keys consumed by the public site.
const (
	ContentKeyAbout        = "about"
	ContentKeyFooter       = "footer"
	ContentKeyHeaderSlides = "header_slides"
)

// ContentBlock is an editable piece of site copy. Array-valued blocks (header
// slides) store a JSON-encoded URL list in Content.
type ContentBlock struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}
