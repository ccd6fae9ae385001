// Package observe provides telemetry for the cache: a structured JSON
// logger, OpenTelemetry meter and tracer wiring with pluggable exporters,
// and a CacheMetrics recorder for lookup outcomes, revalidations, and tier
// writes.
package observe
