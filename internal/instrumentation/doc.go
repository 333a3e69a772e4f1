// Package instrumentation provides OpenTelemetry metrics for daybrief.
//
// Metrics are exported through the Prometheus exporter and served by
// the dedicated metrics server. The package records HTTP request
// metrics and upstream (Google Calendar, OpenWeather) operation
// metrics. When instrumentation is disabled every recorder is a no-op.
package instrumentation
