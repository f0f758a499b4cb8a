package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/socialnet-api/internal/models"
	"github.com/robfig/cron"
)

// Sweeper is the part of the scheduled post service the job drives.
type Sweeper interface {
	Sweep(ctx context.Context) ([]*models.Post, error)
}

type SweepJob struct {
	s       Sweeper
	timeout time.Duration

	// running guards against a slow sweep overlapping the next tick.
	running sync.Mutex
}

func NewSweepJob(s Sweeper, timeout time.Duration) *SweepJob {
	return &SweepJob{s: s, timeout: timeout}
}

// Run performs one sweep. It skips the tick if a previous sweep is still
// in progress and reports whether it ran.
func (j *SweepJob) Run() bool {
	if !j.running.TryLock() {
		slog.Info("previous sweep still running, skipping tick")
		return false
	}
	defer j.running.Unlock()

	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	posts, err := j.s.Sweep(ctx)
	if err != nil {
		slog.Error("sweep failed", "error", err)
		return true
	}
	if len(posts) > 0 {
		slog.Info("sweep published scheduled posts", "count", len(posts))
	}
	return true
}

// Schedule registers the job on c to run every interval.
func (j *SweepJob) Schedule(c *cron.Cron, interval time.Duration) error {
	return c.AddFunc(fmt.Sprintf("@every %s", interval), func() { j.Run() })
}
