package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Coordinator metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driftfs_api_requests_total",
			Help: "Total number of control-plane requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "driftfs_api_request_duration_seconds",
			Help:    "Control-plane request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ActiveNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "driftfs_active_nodes",
			Help: "Number of storage nodes currently inside the liveness window",
		},
	)

	BlocksPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_blocks_placed_total",
			Help: "Total number of blocks assigned replicas by put-initiate",
		},
	)

	HeartbeatsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_heartbeats_total",
			Help: "Total number of heartbeats received",
		},
	)

	// Storage node metrics
	BlocksWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_blocks_written_total",
			Help: "Total number of blocks written by clients",
		},
	)

	BlocksRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_blocks_read_total",
			Help: "Total number of block reads served",
		},
	)

	BlocksReplicated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_blocks_replicated_total",
			Help: "Total number of blocks stored via peer replication",
		},
	)

	BlocksDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_blocks_deleted_total",
			Help: "Total number of blocks deleted on coordinator request",
		},
	)

	ReplicationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_replication_failures_total",
			Help: "Total number of failed primary-to-follower block pushes",
		},
	)

	BytesIn = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_block_bytes_in_total",
			Help: "Total block payload bytes received",
		},
	)

	BytesOut = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "driftfs_block_bytes_out_total",
			Help: "Total block payload bytes served",
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		ActiveNodes,
		BlocksPlaced,
		HeartbeatsTotal,
		BlocksWritten,
		BlocksRead,
		BlocksReplicated,
		BlocksDeleted,
		ReplicationFailures,
		BytesIn,
		BytesOut,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
