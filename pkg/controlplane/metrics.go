package controlplane

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_runs_total",
			Help: "Total number of pipeline invocations by terminal status",
		},
		[]string{"status"},
	)

	replaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_replays_total",
		Help: "Total number of replayed executions",
	})

	resumesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_resumes_total",
		Help: "Total number of resumed executions after approval",
	})

	approvalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_approvals_total",
			Help: "Total number of recorded approval decisions",
		},
		[]string{"decision"},
	)

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warden_pipeline_duration_seconds",
		Help:    "Wall-clock duration of pipeline executions",
		Buckets: prometheus.DefBuckets,
	})
)
