package gdbscan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics
// for each stage of the clustering pipeline. Implement this interface to
// integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after neighbor-graph construction.
	// n is the point count, edges is the total directed edge count.
	RecordBuild(n, edges int, duration time.Duration, err error)

	// RecordFinalize is called after the staging graph is frozen into CSR.
	RecordFinalize(n int, duration time.Duration, err error)

	// RecordClassify is called after the Core/Noise classification pass.
	// core is the number of nodes classified Core.
	RecordClassify(n, core int, duration time.Duration)

	// RecordIdentify is called after cluster identification (BFS expansion).
	// clusters is the number of clusters found; border is the number of
	// nodes relabeled from Noise to Border.
	RecordIdentify(clusters, border int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFinalize(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordClassify(int, int, time.Duration)   {}
func (NoopMetricsCollector) RecordIdentify(int, int, time.Duration)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without an external dependency.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	EdgeCount        atomic.Int64
	FinalizeCount    atomic.Int64
	FinalizeErrors   atomic.Int64
	ClassifyCount    atomic.Int64
	CoreCount        atomic.Int64
	IdentifyCount    atomic.Int64
	ClusterCount     atomic.Int64
	BorderCount      atomic.Int64
}

func (b *BasicMetricsCollector) RecordBuild(n, edges int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	b.EdgeCount.Add(int64(edges))
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordFinalize(n int, duration time.Duration, err error) {
	b.FinalizeCount.Add(1)
	if err != nil {
		b.FinalizeErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordClassify(n, core int, duration time.Duration) {
	b.ClassifyCount.Add(1)
	b.CoreCount.Add(int64(core))
}

func (b *BasicMetricsCollector) RecordIdentify(clusters, border int, duration time.Duration) {
	b.IdentifyCount.Add(1)
	b.ClusterCount.Add(int64(clusters))
	b.BorderCount.Add(int64(border))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:    b.BuildCount.Load(),
		BuildErrors:   b.BuildErrors.Load(),
		EdgeCount:     b.EdgeCount.Load(),
		FinalizeCount: b.FinalizeCount.Load(),
		ClassifyCount: b.ClassifyCount.Load(),
		CoreCount:     b.CoreCount.Load(),
		IdentifyCount: b.IdentifyCount.Load(),
		ClusterCount:  b.ClusterCount.Load(),
		BorderCount:   b.BorderCount.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount    int64
	BuildErrors   int64
	EdgeCount     int64
	FinalizeCount int64
	ClassifyCount int64
	CoreCount     int64
	IdentifyCount int64
	ClusterCount  int64
	BorderCount   int64
}
