package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishScheduledPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishScheduledPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	post, err := q.s.PublishDue(ctx, payload.ScheduledPostID)
	if err != nil {
		return err
	}

	if post != nil {
		slog.Info("scheduled post published from queue", "scheduled_post_id", payload.ScheduledPostID, "post_id", post.ID)
	}
	return nil
}

// Mux routes publish tasks to q.
func (q *Queue) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypePublishScheduledPost, q.HandlePublishScheduledPostTask)
	return mux
}
