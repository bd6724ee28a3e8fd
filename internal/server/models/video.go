package models

import "time"

// Video metadata. VideoKey and ThumbnailKey address objects in the media
// store; presigned URLs are attached by the video service on reads.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoKey     string    `json:"-"`
	ThumbnailKey string    `json:"-"`
	VideoURL     string    `json:"videoFile,omitempty"`
	ThumbnailURL string    `json:"thumbnail,omitempty"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
