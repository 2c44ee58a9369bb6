package models

import "time"

type Episode struct {
	ID            int       `json:"id"`
	AnimeID       int       `json:"animeId"`
	Title         string    `json:"title"`
	EpisodeNumber int       `json:"episodeNumber"`
	Description   string    `json:"description,omitempty"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type EpisodeInput struct {
	AnimeID       IntField `json:"animeId"`
	Title         *string  `json:"title"`
	EpisodeNumber IntField `json:"episodeNumber"`
	Description   *string  `json:"description"`
	Thumbnail     *string  `json:"thumbnail"`
}
