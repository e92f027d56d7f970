package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Editor health
	MetricEditorSessions  = "editor.sessions_active"
	MetricEditorSaveError = "editor.save_error_rate"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricBoundariesDrawn = "business.boundaries_drawn"
	MetricRemindersSent   = "business.reminders_sent"
)
