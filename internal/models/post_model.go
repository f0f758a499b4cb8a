package models

import "time"

// Post is a live entry in the feed.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	Content   string    `db:"content" json:"content"`
	MediaURL  string    `db:"media_url" json:"mediaUrl,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
