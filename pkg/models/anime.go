package models

import "time"

// Valid anime_series.status values.
var AnimeStatuses = []string{"ongoing", "completed", "new", "hot"}

type AnimeSeries struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverImage  string    `json:"coverImage,omitempty"`
	BannerImage string    `json:"bannerImage,omitempty"`
	Genres      []string  `json:"genres"`
	Status      string    `json:"status"`
	Year        int       `json:"year,omitempty"`
	Rating      string    `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnimeSeriesInput is the admin-write payload. Pointer fields distinguish
// "absent" from "set to zero" so the same struct serves POST and partial PUT.
type AnimeSeriesInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	CoverImage  *string   `json:"coverImage"`
	BannerImage *string   `json:"bannerImage"`
	Genres      *[]string `json:"genres"`
	Status      *string   `json:"status"`
	Year        IntField  `json:"year"`
	Rating      *string   `json:"rating"`
}
