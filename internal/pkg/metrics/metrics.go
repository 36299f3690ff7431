// Package metrics defines and registers all custom Prometheus metrics for the
// pathlabel front end. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto when the
// package is imported; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pathlabel"

// ── Label metrics ─────────────────────────────────────────────────────────────

// LabelsRenderedTotal counts label renders served to operators.
// Labels:
//   - flow: "intake" or "reprint"
//   - action: "preview" or "print"
var LabelsRenderedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "labels_rendered_total",
		Help:      "Total number of barcode labels rendered, by flow and action.",
	},
	[]string{"flow", "action"},
)

// JournalErrorsTotal counts label events that could not be persisted.
var JournalErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_errors_total",
		Help:      "Total number of label journal writes that failed.",
	},
)

// JournalQueueDepth tracks pending label events per journal worker.
var JournalQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "journal_queue_depth",
		Help:      "Current number of label events pending in each journal worker channel.",
	},
	[]string{"worker_id"},
)

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls to the remote pathology service.
// Labels:
//   - endpoint: short route name (e.g. "login", "get-patient")
//   - outcome: "ok", "client_error", "server_error" or "transport_error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the pathology API.",
	},
	[]string{"endpoint", "outcome"},
)

// UpstreamRequestDuration measures round-trip time to the pathology API.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the pathology API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Screen metrics ────────────────────────────────────────────────────────────

// ReportExportsTotal counts report downloads.
// Label:
//   - format: "xlsx" or "pdf"
var ReportExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_exports_total",
		Help:      "Total number of report exports generated, by format.",
	},
	[]string{"format"},
)

// SessionsTotal counts session lifecycle events.
// Label:
//   - event: "login", "login_failed", "logout", "missing"
var SessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Total number of session lifecycle events.",
	},
	[]string{"event"},
)
