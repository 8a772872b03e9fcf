// Package metrics records pipeline activity as Prometheus metrics.
//
// [Registry] implements observability.PipelineHooks and
// observability.CacheHooks. The CLI registers it at startup and, with
// --metrics-file, writes the collected values in the text exposition format
// for the node_exporter textfile collector.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/voxelgraph/pkg/observability"
)

// Registry holds all voxelgraph metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	ReadsTotal   *prometheus.CounterVec
	ReadDuration prometheus.Histogram
	VoxelsRead   prometheus.Counter

	BuildsTotal   *prometheus.CounterVec
	BuildDuration *prometheus.HistogramVec
	GraphNodes    prometheus.Gauge
	GraphEdges    prometheus.Gauge

	ExportsTotal *prometheus.CounterVec
	ExportBytes  *prometheus.CounterVec

	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.CounterVec
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.ReadsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelgraph_reads_total",
			Help: "Total number of voxel array reads",
		},
		[]string{"status"},
	)
	r.ReadDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voxelgraph_read_duration_seconds",
			Help:    "Voxel array read latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)
	r.VoxelsRead = f.NewCounter(
		prometheus.CounterOpts{
			Name: "voxelgraph_voxels_read_total",
			Help: "Total number of voxels read",
		},
	)

	r.BuildsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelgraph_builds_total",
			Help: "Total number of graph builds",
		},
		[]string{"boundary", "status"},
	)
	r.BuildDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voxelgraph_build_duration_seconds",
			Help:    "Graph build latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"boundary"},
	)
	r.GraphNodes = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "voxelgraph_graph_nodes",
			Help: "Node count of the last graph built",
		},
	)
	r.GraphEdges = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "voxelgraph_graph_edges",
			Help: "Edge count of the last graph built",
		},
	)

	r.ExportsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelgraph_exports_total",
			Help: "Total number of graph exports",
		},
		[]string{"format", "status"},
	)
	r.ExportBytes = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelgraph_export_bytes_total",
			Help: "Total bytes written by exporters",
		},
		[]string{"format"},
	)

	r.CacheRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelgraph_cache_requests_total",
			Help: "Cache lookups by result",
		},
		[]string{"key_type", "result"}, // hit, miss
	)
	r.CacheWriteBytes = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelgraph_cache_write_bytes_total",
			Help: "Bytes written to the cache",
		},
		[]string{"key_type"},
	)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnReadStart implements observability.PipelineHooks.
func (r *Registry) OnReadStart(context.Context, string) {}

// OnReadComplete implements observability.PipelineHooks.
func (r *Registry) OnReadComplete(_ context.Context, _ string, voxels int, d time.Duration, err error) {
	r.ReadsTotal.WithLabelValues(status(err)).Inc()
	r.ReadDuration.Observe(d.Seconds())
	if err == nil {
		r.VoxelsRead.Add(float64(voxels))
	}
}

// OnBuildStart implements observability.PipelineHooks.
func (r *Registry) OnBuildStart(context.Context, string, int) {}

// OnBuildComplete implements observability.PipelineHooks.
func (r *Registry) OnBuildComplete(_ context.Context, boundary string, nodes, edges int, d time.Duration, err error) {
	r.BuildsTotal.WithLabelValues(boundary, status(err)).Inc()
	r.BuildDuration.WithLabelValues(boundary).Observe(d.Seconds())
	if err == nil {
		r.GraphNodes.Set(float64(nodes))
		r.GraphEdges.Set(float64(edges))
	}
}

// OnExportStart implements observability.PipelineHooks.
func (r *Registry) OnExportStart(context.Context, string) {}

// OnExportComplete implements observability.PipelineHooks.
func (r *Registry) OnExportComplete(_ context.Context, format string, bytes int, _ time.Duration, err error) {
	r.ExportsTotal.WithLabelValues(format, status(err)).Inc()
	r.ExportBytes.WithLabelValues(format).Add(float64(bytes))
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWriteBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
)
