package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/socialnet-api/internal/models"
	"github.com/maheshrc27/socialnet-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.task = task
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

type fakeService struct {
	dueCalls []int64
	post     *models.Post
	err      error
}

func (f *fakeService) Create(ctx context.Context, sc *transfer.ScheduledPostCreation) (*models.ScheduledPost, error) {
	return nil, nil
}

func (f *fakeService) ListPending(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return nil, nil
}

func (f *fakeService) Update(ctx context.Context, postID, requesterID int64, patch models.ScheduledPostPatch) (*models.ScheduledPost, error) {
	return nil, nil
}

func (f *fakeService) Delete(ctx context.Context, postID, requesterID int64) error { return nil }

func (f *fakeService) Sweep(ctx context.Context) ([]*models.Post, error) { return nil, nil }

func (f *fakeService) PublishNow(ctx context.Context, postID, requesterID int64) (*models.Post, error) {
	return nil, nil
}

func (f *fakeService) PublishDue(ctx context.Context, postID int64) (*models.Post, error) {
	f.dueCalls = append(f.dueCalls, postID)
	return f.post, f.err
}

func (f *fakeService) History(ctx context.Context, userID int64) ([]*models.PublishHistory, error) {
	return nil, nil
}

func TestSchedulePublishEnqueuesAtScheduledTime(t *testing.T) {
	enq := &fakeEnqueuer{}
	s := NewScheduler(enq)
	at := time.Now().Add(time.Hour)

	require.NoError(t, s.SchedulePublish(context.Background(), 42, at))

	require.NotNil(t, enq.task)
	assert.Equal(t, TaskTypePublishScheduledPost, enq.task.Type())

	var payload PublishScheduledPostPayload
	require.NoError(t, json.Unmarshal(enq.task.Payload(), &payload))
	assert.Equal(t, int64(42), payload.ScheduledPostID)

	var found bool
	for _, opt := range enq.opts {
		if opt.Type() == asynq.ProcessAtOpt {
			found = true
			assert.True(t, at.Equal(opt.Value().(time.Time)))
		}
	}
	assert.True(t, found, "ProcessAt option missing")
}

func TestSchedulePublishPropagatesError(t *testing.T) {
	s := NewScheduler(&fakeEnqueuer{err: errors.New("redis down")})
	assert.Error(t, s.SchedulePublish(context.Background(), 1, time.Now()))
}

func TestHandlePublishTask(t *testing.T) {
	svc := &fakeService{post: &models.Post{ID: 7}}
	q := NewQueue(svc)

	task, err := NewPublishTask(42)
	require.NoError(t, err)

	require.NoError(t, q.HandlePublishScheduledPostTask(context.Background(), task))
	assert.Equal(t, []int64{42}, svc.dueCalls)
}

func TestHandlePublishTaskErrors(t *testing.T) {
	svc := &fakeService{err: errors.New("db down")}
	q := NewQueue(svc)

	task, err := NewPublishTask(1)
	require.NoError(t, err)
	assert.Error(t, q.HandlePublishScheduledPostTask(context.Background(), task))

	bad := asynq.NewTask(TaskTypePublishScheduledPost, []byte("{"))
	err = q.HandlePublishScheduledPostTask(context.Background(), bad)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
