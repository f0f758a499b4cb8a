package transfer

import (
	"time"

	"github.com/maheshrc27/socialnet-api/internal/models"
)

type ScheduledPostCreation struct {
	UserID      int64     `json:"userId" validate:"required,gt=0"`
	Content     string    `json:"content"`
	MediaURL    string    `json:"mediaUrl"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// ScheduledPostUpdate distinguishes an absent field (nil) from one set to
// its zero value, so {"mediaUrl": ""} clears the media.
type ScheduledPostUpdate struct {
	UserID      int64      `json:"userId" validate:"required,gt=0"`
	Content     *string    `json:"content"`
	MediaURL    *string    `json:"mediaUrl"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

func (u ScheduledPostUpdate) Patch() models.ScheduledPostPatch {
	return models.ScheduledPostPatch{
		Content:     u.Content,
		MediaURL:    u.MediaURL,
		ScheduledAt: u.ScheduledAt,
	}
}

// Requester identifies the user acting on an existing scheduled post.
type Requester struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

type SweepResult struct {
	Message string         `json:"message"`
	Posts   []*models.Post `json:"posts"`
}
