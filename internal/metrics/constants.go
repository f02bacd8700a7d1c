package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal   = "http_requests_total"
	MetricNameHTTPRequestDuration = "http_request_duration_seconds"
	MetricNameMergesTotal         = "anvil_merges_total"
	MetricNameConflictingMerges   = "anvil_conflicting_merges_total"
	MetricNameMergeCost           = "anvil_merge_cost"
	MetricNameMergeCacheHits      = "anvil_merge_cache_hits_total"
	MetricNameStaleViewUpdates    = "anvil_stale_view_updates_total"
	MetricNameAuditFailures       = "anvil_audit_failures_total"
)

// Help text
const (
	HelpTextHTTPRequestsTotal   = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration = "HTTP request latency in seconds"
	HelpTextMergesTotal         = "Anvil merges evaluated, by outcome"
	HelpTextConflictingMerges   = "Anvil merges whose sacrifice had conflicting enchantments"
	HelpTextMergeCost           = "Experience cost of allowed anvil merges"
	HelpTextMergeCacheHits      = "Merge evaluations served from the result cache"
	HelpTextStaleViewUpdates    = "Merge results dropped because a newer result was already shown"
	HelpTextAuditFailures       = "Merge audit records that could not be written"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelOutcome = "outcome"
)

// Merge outcomes
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeSkipped = "skipped"
)

// MergeCostBuckets spans the game's "too expensive" threshold (40 levels).
var MergeCostBuckets = []float64{1, 2, 5, 10, 20, 30, 39, 50, 100}

// HTTPLatencyBuckets in seconds.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}
