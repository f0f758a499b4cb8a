package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the subset of *asynq.Client used for scheduling.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues a delayed publish task per scheduled post.
type Scheduler struct {
	client Enqueuer
}

func NewScheduler(client Enqueuer) *Scheduler {
	return &Scheduler{client: client}
}

func NewPublishTask(postID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(PublishScheduledPostPayload{ScheduledPostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePublishScheduledPost, payload, asynq.MaxRetry(3)), nil
}

func (s *Scheduler) SchedulePublish(ctx context.Context, postID int64, at time.Time) error {
	task, err := NewPublishTask(postID)
	if err != nil {
		return err
	}

	info, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(at))
	if err != nil {
		return err
	}

	slog.Info("publish task scheduled", "scheduled_post_id", postID, "task_id", info.ID, "process_at", at)
	return nil
}
