// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP requests partitioned by method, route template and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Successful lifecycle transitions by action (submit, approve, ...)
	AdTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ads_transitions_total",
			Help: "Ad lifecycle transitions applied",
		},
		[]string{"action"},
	)

	// Requests refused because the inventory slot was taken
	SlotConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ads_slot_conflicts_total",
			Help: "Ad operations rejected by the slot conflict check",
		},
		[]string{"ad_type", "stage"},
	)

	SchedulerTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ads_scheduler_ticks_total",
			Help: "Reconciliation scheduler ticks by result",
		},
		[]string{"result"},
	)

	SchedulerAdsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ads_scheduler_transitions_total",
			Help: "Ads moved by the reconciliation scheduler",
		},
		[]string{"kind"},
	)

	SchedulerLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ads_scheduler_last_success_timestamp_seconds",
			Help: "Unix time of the last fully successful reconciliation tick",
		},
	)
)

// Tick results
const (
	TickOK      = "ok"
	TickError   = "error"
	TickSkipped = "skipped"
)
