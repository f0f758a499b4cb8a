package queue

import (
	"github.com/maheshrc27/socialnet-api/internal/service"
)

type Queue struct {
	s service.ScheduledPostService
}

func NewQueue(s service.ScheduledPostService) *Queue {
	return &Queue{s: s}
}

const TaskTypePublishScheduledPost = "scheduled_post:publish"

type PublishScheduledPostPayload struct {
	ScheduledPostID int64 `json:"scheduled_post_id"`
}
