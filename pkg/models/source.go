package models

// VideoSource is a named external playback URL for one episode or one
// movie. Exactly one of EpisodeID/MovieID is set; the store enforces
// this with a CHECK constraint and validation rejects ambiguous payloads.
type VideoSource struct {
	ID           int    `json:"id"`
	EpisodeID    int    `json:"episodeId,omitempty"`
	MovieID      int    `json:"movieId,omitempty"`
	ServerName   string `json:"serverName"`
	ServerNumber int    `json:"serverNumber"`
	VideoURL     string `json:"videoUrl"`
	Quality      string `json:"quality,omitempty"`
}

type VideoSourceInput struct {
	EpisodeID    IntField `json:"episodeId"`
	MovieID      IntField `json:"movieId"`
	ServerName   *string  `json:"serverName"`
	ServerNumber IntField `json:"serverNumber"`
	VideoURL     *string  `json:"videoUrl"`
	Quality      *string  `json:"quality"`
}
