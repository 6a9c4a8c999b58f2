package internaldefs

import (
	goCoherence "github.com/MrEthical07/goCoherence"
)

// CounterDef defines a public type used by goCoherence APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goCoherence.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goCoherence APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goCoherence.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the coherence engine.
var CounterDefs = []CounterDef{
	{ID: goCoherence.MetricCacheHit, Name: "gocoherence_cache_hit_total", Help: "Cache reads served from Redis."},
	{ID: goCoherence.MetricCacheMiss, Name: "gocoherence_cache_miss_total", Help: "Cache reads that fell through to the record store."},
	{ID: goCoherence.MetricCacheSet, Name: "gocoherence_cache_set_total", Help: "Cache population writes."},
	{ID: goCoherence.MetricInvalidationSuccess, Name: "gocoherence_invalidation_success_total", Help: "Successful post-commit cache invalidations."},
	{ID: goCoherence.MetricInvalidationFailure, Name: "gocoherence_invalidation_failure_total", Help: "Failed post-commit cache invalidations."},
	{ID: goCoherence.MetricLoginSuccess, Name: "gocoherence_login_success_total", Help: "Successful login operations."},
	{ID: goCoherence.MetricLoginFailure, Name: "gocoherence_login_failure_total", Help: "Failed login operations."},
	{ID: goCoherence.MetricLoginDuplicateToken, Name: "gocoherence_login_duplicate_token_total", Help: "Login attempts rejected for a duplicate session token."},
	{ID: goCoherence.MetricLogoutSuccess, Name: "gocoherence_logout_success_total", Help: "Successful logout operations."},
	{ID: goCoherence.MetricLogoutNoSession, Name: "gocoherence_logout_no_session_total", Help: "Logout attempts with no live session."},
	{ID: goCoherence.MetricSessionRegistered, Name: "gocoherence_session_registered_total", Help: "Sessions registered."},
	{ID: goCoherence.MetricSessionConsumed, Name: "gocoherence_session_consumed_total", Help: "Sessions consumed exactly once at logout."},
	{ID: goCoherence.MetricSessionSwept, Name: "gocoherence_session_swept_total", Help: "Expired sessions removed by the sweeper."},
	{ID: goCoherence.MetricAuthorizeSuccess, Name: "gocoherence_authorize_success_total", Help: "Successful authorization checks."},
	{ID: goCoherence.MetricAuthorizeDenied, Name: "gocoherence_authorize_denied_total", Help: "Denied authorization checks."},
	{ID: goCoherence.MetricJournalAppend, Name: "gocoherence_journal_append_total", Help: "Journal entries appended."},
	{ID: goCoherence.MetricJournalFailure, Name: "gocoherence_journal_failure_total", Help: "Failed journal appends."},
}

// HistogramDefs is an exported constant or variable used by the coherence engine.
var HistogramDefs = []HistogramDef{
	{ID: goCoherence.MetricReadLatency, Name: "gocoherence_read_latency_seconds", Help: "Record read latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the coherence engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the coherence engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a raw bucket slice into the fixed 8-bucket layout.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative le counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
