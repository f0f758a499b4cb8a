package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/socialnet-api/internal/metrics"
	"github.com/maheshrc27/socialnet-api/internal/models"
	"github.com/maheshrc27/socialnet-api/internal/repository"
	"github.com/maheshrc27/socialnet-api/internal/transfer"
)

// PublishScheduler arranges for a scheduled post to be looked at again once
// its time has come. It is a latency optimisation; Sweep stays authoritative.
type PublishScheduler interface {
	SchedulePublish(ctx context.Context, postID int64, at time.Time) error
}

type ScheduledPostService interface {
	Create(ctx context.Context, sc *transfer.ScheduledPostCreation) (*models.ScheduledPost, error)
	ListPending(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	Update(ctx context.Context, postID, requesterID int64, patch models.ScheduledPostPatch) (*models.ScheduledPost, error)
	Delete(ctx context.Context, postID, requesterID int64) error
	Sweep(ctx context.Context) ([]*models.Post, error)
	PublishNow(ctx context.Context, postID, requesterID int64) (*models.Post, error)
	PublishDue(ctx context.Context, postID int64) (*models.Post, error)
	History(ctx context.Context, userID int64) ([]*models.PublishHistory, error)
}

type scheduledPostService struct {
	tx          repository.Transactor
	sr          repository.ScheduledPostRepository
	pr          repository.PostRepository
	ur          repository.UserRepository
	hr          repository.PublishHistoryRepository
	scheduler   PublishScheduler
	concurrency int
	now         func() time.Time
}

func NewScheduledPostService(
	tx repository.Transactor,
	sr repository.ScheduledPostRepository,
	pr repository.PostRepository,
	ur repository.UserRepository,
	hr repository.PublishHistoryRepository,
	scheduler PublishScheduler,
	concurrency int) ScheduledPostService {
	if concurrency <= 0 {
		concurrency = 10
	}
	return &scheduledPostService{
		tx:          tx,
		sr:          sr,
		pr:          pr,
		ur:          ur,
		hr:          hr,
		scheduler:   scheduler,
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *scheduledPostService) Create(ctx context.Context, sc *transfer.ScheduledPostCreation) (*models.ScheduledPost, error) {
	if sc == nil {
		return nil, newError(ErrMissingField, "scheduled post data is required")
	}
	if strings.TrimSpace(sc.Content) == "" {
		return nil, newError(ErrMissingField, "content is required")
	}
	if sc.ScheduledAt.IsZero() {
		return nil, newError(ErrMissingField, "scheduledAt is required")
	}
	if !sc.ScheduledAt.After(s.now()) {
		return nil, newError(ErrInvalidSchedule, "scheduledAt must be in the future")
	}

	user, isExist, err := s.ur.GetByID(ctx, sc.UserID)
	if err != nil {
		return nil, storageError("failed to look up user", err)
	}
	if !isExist {
		return nil, newError(ErrNotFound, "user not found")
	}

	sp := &models.ScheduledPost{
		UserID:      user.ID,
		Content:     sc.Content,
		MediaURL:    sc.MediaURL,
		ScheduledAt: sc.ScheduledAt,
	}
	if _, err := s.sr.Create(ctx, nil, sp); err != nil {
		return nil, storageError("failed to create scheduled post", err)
	}
	sp.Author = user.Profile()

	s.requestPublish(ctx, sp)

	return sp, nil
}

func (s *scheduledPostService) ListPending(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	posts, err := s.sr.ListPending(ctx, userID, s.now())
	if err != nil {
		return nil, storageError("failed to list scheduled posts", err)
	}
	if posts == nil {
		posts = []*models.ScheduledPost{}
	}
	return posts, nil
}

func (s *scheduledPostService) Update(ctx context.Context, postID, requesterID int64, patch models.ScheduledPostPatch) (*models.ScheduledPost, error) {
	current, err := s.getEditable(ctx, postID, requesterID)
	if err != nil {
		return nil, err
	}

	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, newError(ErrMissingField, "content cannot be empty")
	}
	if patch.ScheduledAt != nil {
		if patch.ScheduledAt.IsZero() {
			return nil, newError(ErrMissingField, "scheduledAt cannot be empty")
		}
		if !patch.ScheduledAt.After(s.now()) {
			return nil, newError(ErrInvalidSchedule, "scheduledAt must be in the future")
		}
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, ok, err := s.sr.Update(ctx, postID, patch)
	if err != nil {
		return nil, storageError("failed to update scheduled post", err)
	}
	if !ok {
		// Published or deleted between the read above and the write.
		return nil, s.lostRace(ctx, postID)
	}

	if patch.ScheduledAt != nil {
		s.requestPublish(ctx, updated)
	}
	return updated, nil
}

func (s *scheduledPostService) Delete(ctx context.Context, postID, requesterID int64) error {
	if _, err := s.getEditable(ctx, postID, requesterID); err != nil {
		return err
	}

	removed, err := s.sr.Remove(ctx, postID)
	if err != nil {
		return storageError("failed to delete scheduled post", err)
	}
	if !removed {
		return s.lostRace(ctx, postID)
	}
	return nil
}

func (s *scheduledPostService) PublishNow(ctx context.Context, postID, requesterID int64) (*models.Post, error) {
	sp, err := s.getEditable(ctx, postID, requesterID)
	if err != nil {
		return nil, err
	}
	post, err := s.publish(ctx, sp, models.PublishTriggerPublishNow, nil)
	if errors.Is(err, errNotPublishable) {
		// Published or deleted since getEditable read it.
		return nil, s.lostRace(ctx, postID)
	}
	return post, err
}

// PublishDue publishes postID if it is still pending and due. Anything else
// is a no-op returning a nil post.
func (s *scheduledPostService) PublishDue(ctx context.Context, postID int64) (*models.Post, error) {
	now := s.now()
	sp, err := s.sr.GetByID(ctx, postID)
	if err != nil {
		return nil, storageError("failed to get scheduled post", err)
	}
	if sp == nil || !sp.IsDue(now) {
		return nil, nil
	}

	post, err := s.publish(ctx, sp, models.PublishTriggerQueue, &now)
	if errors.Is(err, errNotPublishable) {
		return nil, nil
	}
	return post, err
}

// Sweep publishes every due scheduled post. A failure on one item is logged
// and leaves it pending for the next sweep.
func (s *scheduledPostService) Sweep(ctx context.Context) ([]*models.Post, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	now := s.now()
	due, err := s.sr.ListDue(ctx, now)
	if err != nil {
		return nil, storageError("failed to list due scheduled posts", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		published = []*models.Post{}
	)
	semaphore := make(chan struct{}, s.concurrency)

	dispatched := 0
dispatch:
	for _, sp := range due {
		if ctx.Err() != nil {
			break
		}
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		wg.Add(1)
		dispatched++

		go func(sp *models.ScheduledPost) {
			defer wg.Done()
			defer func() { <-semaphore }()

			post, err := s.publish(ctx, sp, models.PublishTriggerSweep, &now)
			if err != nil {
				if !errors.Is(err, errNotPublishable) {
					slog.Error("failed to publish scheduled post", "scheduled_post_id", sp.ID, "error", err)
				}
				return
			}

			mu.Lock()
			published = append(published, post)
			mu.Unlock()
		}(sp)
	}

	wg.Wait()

	if dispatched < len(due) {
		slog.Warn("sweep interrupted, remaining posts left for the next run", "due", len(due), "skipped", len(due)-dispatched, "error", ctx.Err())
	}
	if len(due) > 0 {
		slog.Info("sweep finished", "due", len(due), "published", len(published))
	}
	return published, nil
}

func (s *scheduledPostService) History(ctx context.Context, userID int64) ([]*models.PublishHistory, error) {
	history, err := s.hr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("failed to list publish history", err)
	}
	if history == nil {
		history = []*models.PublishHistory{}
	}
	return history, nil
}

// errNotPublishable means the compare-and-set matched nothing: the post was
// published or deleted by someone else, or rescheduled past due.
var errNotPublishable = errors.New("scheduled post is no longer publishable")

// publish flips the published flag and creates the live post in one
// transaction. The flag flip is conditional, so of several concurrent callers
// only one gets past it. The live post is built from the row returned by the
// flip, never from sp, so an edit that landed after sp was read is the one
// that goes live. With due set, a post rescheduled past due is left pending.
func (s *scheduledPostService) publish(ctx context.Context, sp *models.ScheduledPost, trigger string, due *time.Time) (*models.Post, error) {
	var post *models.Post

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		current, err := s.sr.MarkPublished(ctx, tx, sp.ID, due)
		if err != nil {
			return storageError("failed to mark scheduled post as published", err)
		}
		if current == nil {
			return errNotPublishable
		}

		post = &models.Post{
			UserID:   current.UserID,
			Content:  current.Content,
			MediaURL: current.MediaURL,
		}
		if _, err := s.pr.Create(ctx, tx, post); err != nil {
			return storageError("failed to create post", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNotPublishable) {
			return nil, err
		}
		var e *Error
		if !errors.As(err, &e) {
			err = storageError("failed to publish scheduled post", err)
		}
		metrics.PublishFailures.WithLabelValues(trigger).Inc()
		s.recordHistory(ctx, sp, 0, trigger, err)
		return nil, err
	}

	metrics.PostsPublished.WithLabelValues(trigger).Inc()
	s.recordHistory(ctx, sp, post.ID, trigger, nil)
	return post, nil
}

func (s *scheduledPostService) getEditable(ctx context.Context, postID, requesterID int64) (*models.ScheduledPost, error) {
	if postID <= 0 {
		return nil, newError(ErrNotFound, "scheduled post not found")
	}

	sp, err := s.sr.GetByID(ctx, postID)
	if err != nil {
		return nil, storageError("failed to get scheduled post", err)
	}
	if sp == nil {
		return nil, newError(ErrNotFound, "scheduled post not found")
	}
	if sp.UserID != requesterID {
		return nil, newError(ErrForbidden, "scheduled post belongs to another user")
	}
	if sp.Published {
		return nil, newError(ErrAlreadyPublished, "scheduled post is already published")
	}
	return sp, nil
}

func (s *scheduledPostService) lostRace(ctx context.Context, postID int64) error {
	sp, err := s.sr.GetByID(ctx, postID)
	if err != nil {
		return storageError("failed to get scheduled post", err)
	}
	if sp == nil {
		return newError(ErrNotFound, "scheduled post not found")
	}
	return newError(ErrAlreadyPublished, "scheduled post is already published")
}

func (s *scheduledPostService) requestPublish(ctx context.Context, sp *models.ScheduledPost) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.SchedulePublish(ctx, sp.ID, sp.ScheduledAt); err != nil {
		slog.Warn("failed to enqueue scheduled post, sweep will pick it up", "scheduled_post_id", sp.ID, "error", err)
	}
}

func (s *scheduledPostService) recordHistory(ctx context.Context, sp *models.ScheduledPost, postID int64, trigger string, publishErr error) {
	if s.hr == nil {
		return
	}
	ph := &models.PublishHistory{
		UserID:          sp.UserID,
		ScheduledPostID: sp.ID,
		PostID:          postID,
		Trigger:         trigger,
	}
	if publishErr != nil {
		ph.ErrorMessage = publishErr.Error()
	}
	if _, err := s.hr.Create(ctx, ph); err != nil {
		slog.Error(fmt.Sprintf("failed to record publish history for scheduled post %d", sp.ID), "error", err)
	}
}
