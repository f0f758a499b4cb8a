package models

import "time"

type ScheduledPost struct {
	ID          int64        `db:"id" json:"id"`
	UserID      int64        `db:"user_id" json:"userId"`
	Content     string       `db:"content" json:"content"`
	MediaURL    string       `db:"media_url" json:"mediaUrl,omitempty"`
	ScheduledAt time.Time    `db:"scheduled_at" json:"scheduledAt"`
	Published   bool         `db:"published" json:"published"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
	Author      *UserProfile `db:"-" json:"author,omitempty"`
}

// IsDue reports whether the post should be published at now.
func (p *ScheduledPost) IsDue(now time.Time) bool {
	return !p.Published && !p.ScheduledAt.After(now)
}

// ScheduledPostPatch holds a partial update. Nil fields are left unchanged.
type ScheduledPostPatch struct {
	Content     *string
	MediaURL    *string
	ScheduledAt *time.Time
}

func (p ScheduledPostPatch) IsEmpty() bool {
	return p.Content == nil && p.MediaURL == nil && p.ScheduledAt == nil
}
