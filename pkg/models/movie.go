package models

import "time"

type Movie struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverImage  string    `json:"coverImage,omitempty"`
	BannerImage string    `json:"bannerImage,omitempty"`
	Genres      []string  `json:"genres"`
	Duration    int       `json:"duration,omitempty"`
	Year        int       `json:"year,omitempty"`
	Rating      string    `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MovieInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	CoverImage  *string   `json:"coverImage"`
	BannerImage *string   `json:"bannerImage"`
	Genres      *[]string `json:"genres"`
	Duration    IntField  `json:"duration"`
	Year        IntField  `json:"year"`
	Rating      *string   `json:"rating"`
}
