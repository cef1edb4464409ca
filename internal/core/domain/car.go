package domain

import "time"

// Car is a rental inventory record. Offline-cached cars carry the same field
// names as server ones so nothing downstream needs to branch on origin.
type Car struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Brand     string            `json:"brand"`
	Details   string            `json:"details"`
	Seats     int               `json:"seats"`
	Features  []string          `json:"features"`
	Specs     map[string]string `json:"specs"`
	IsActive  bool              `json:"is_active"`
	ImageURL  string            `json:"image_url"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
