package models

// Valid servers.status values.
var ServerStatuses = []string{"online", "maintenance", "offline"}

// Server is administrative fleet metadata. It is not linked to
// video_sources rows; source rows carry their own server name/number.
type Server struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Number       int    `json:"number"`
	Region       string `json:"region,omitempty"`
	Status       string `json:"status"`
	StorageUsed  int    `json:"storageUsed"`
	TotalStorage int    `json:"totalStorage"`
}

type ServerInput struct {
	Name         *string  `json:"name"`
	Number       IntField `json:"number"`
	Region       *string  `json:"region"`
	Status       *string  `json:"status"`
	StorageUsed  IntField `json:"storageUsed"`
	TotalStorage IntField `json:"totalStorage"`
}
