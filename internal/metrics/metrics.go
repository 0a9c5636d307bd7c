package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal counts mint attempts by terminal outcome
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_attempts_total",
			Help: "Total number of mint attempts by outcome",
		},
		[]string{"outcome"},
	)

	// FailuresTotal counts failed attempts by error kind and reason
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_failures_total",
			Help: "Total number of failed mint attempts by error kind",
		},
		[]string{"kind", "reason"},
	)

	// StepDuration tracks the duration of each workflow step
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minter_step_duration_seconds",
			Help:    "Mint workflow step duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	// ConfirmationWait tracks time from broadcast to terminal state
	ConfirmationWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "minter_confirmation_wait_seconds",
			Help:    "Time spent awaiting confirmations in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	// InFlightAttempts tracks attempts between authorization and terminal state
	InFlightAttempts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "minter_in_flight_attempts",
			Help: "Number of mint attempts currently running",
		},
	)

	// UploadsTotal counts pinning uploads by result
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_uploads_total",
			Help: "Total number of asset uploads by result",
		},
		[]string{"result"},
	)

	// UploadBytes tracks uploaded asset sizes
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "minter_upload_bytes",
			Help:    "Size of uploaded assets in bytes",
			Buckets: prometheus.ExponentialBuckets(1<<10, 4, 10),
		},
	)

	// TransactionsSent counts mint transactions by broadcast status
	TransactionsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_transactions_sent_total",
			Help: "Total number of mint transactions sent",
		},
		[]string{"status"},
	)

	// ConfirmationPolls counts receipt polls by result
	ConfirmationPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_confirmation_polls_total",
			Help: "Total number of confirmation polls by result",
		},
		[]string{"result"},
	)

	// TokenCount tracks the collection size from the last snapshot
	TokenCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "minter_collection_token_count",
			Help: "Number of tokens recorded on-chain at the last snapshot",
		},
	)

	// SnapshotRefreshes counts chain state refreshes by status
	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minter_snapshot_refreshes_total",
			Help: "Total number of chain state refreshes",
		},
		[]string{"status"},
	)
)
