package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduled_posts_published_total",
		Help: "Scheduled posts promoted to live posts, by trigger.",
	}, []string{"trigger"})

	PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduled_posts_publish_failures_total",
		Help: "Failed publish attempts, by trigger.",
	}, []string{"trigger"})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduled_posts_sweep_duration_seconds",
		Help:    "Wall time of a full sweep.",
		Buckets: prometheus.DefBuckets,
	})
)
