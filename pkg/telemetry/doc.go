// Package telemetry provides structured logging (zerolog), Prometheus
// metrics and OpenTelemetry tracing for devrig.
package telemetry
