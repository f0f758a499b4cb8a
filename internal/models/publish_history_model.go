package models

import "time"

type PublishHistory struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"userId"`
	ScheduledPostID int64     `db:"scheduled_post_id" json:"scheduledPostId"`
	PostID          int64     `db:"post_id" json:"postId,omitempty"`
	Trigger         string    `db:"trigger" json:"trigger"`
	ErrorMessage    string    `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

const (
	PublishTriggerSweep      = "sweep"
	PublishTriggerPublishNow = "publish_now"
	PublishTriggerQueue      = "queue"
)
