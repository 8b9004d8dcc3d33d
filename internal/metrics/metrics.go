// Package metrics holds process-wide operational counters.
package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters. The zero value is ready to use.
type Metrics struct {
	SummaryRequests      atomic.Int64
	SummaryCacheHits     atomic.Int64
	SummariesCreated     atomic.Int64
	SummaryPersistErrors atomic.Int64
	SummarizerCalls      atomic.Int64
	SummarizerErrors     atomic.Int64
	MetadataRequests     atomic.Int64
	MetadataErrors       atomic.Int64
	MetadataCacheHits    atomic.Int64
	MetadataCacheMisses  atomic.Int64
	ArchiveErrors        atomic.Int64
	DedupSharedResponses atomic.Int64
}

var keys = []string{
	"summary_requests", "summary_cache_hits", "summaries_created", "summary_persist_errors",
	"summarizer_calls", "summarizer_errors",
	"metadata_requests", "metadata_errors", "metadata_cache_hits", "metadata_cache_misses",
	"archive_errors", "dedup_shared_responses",
}

// New returns an empty Metrics.
func New() *Metrics {
	return &Metrics{}
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"summary_requests":       m.SummaryRequests.Load(),
		"summary_cache_hits":     m.SummaryCacheHits.Load(),
		"summaries_created":      m.SummariesCreated.Load(),
		"summary_persist_errors": m.SummaryPersistErrors.Load(),
		"summarizer_calls":       m.SummarizerCalls.Load(),
		"summarizer_errors":      m.SummarizerErrors.Load(),
		"metadata_requests":      m.MetadataRequests.Load(),
		"metadata_errors":        m.MetadataErrors.Load(),
		"metadata_cache_hits":    m.MetadataCacheHits.Load(),
		"metadata_cache_misses":  m.MetadataCacheMisses.Load(),
		"archive_errors":         m.ArchiveErrors.Load(),
		"dedup_shared_responses": m.DedupSharedResponses.Load(),
	}
}

// Format renders counters as "name value" lines in a stable order.
func (m *Metrics) Format() string {
	snap := m.Snapshot()
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, snap[k])
	}
	return sb.String()
}
