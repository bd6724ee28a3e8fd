package models

import "time"

// Like marks exactly one of VideoID, CommentID, TweetID.
type Like struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"likedBy"`
	VideoID   *string   `json:"video,omitempty"`
	CommentID *string   `json:"comment,omitempty"`
	TweetID   *string   `json:"tweet,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
