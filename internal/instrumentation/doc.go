// Package instrumentation records OpenTelemetry metrics for the
// engine's Drive operations, authorization attempts and linked-account
// count. A nil Metrics value disables recording, so the engine runs
// unchanged without a configured meter provider.
package instrumentation
