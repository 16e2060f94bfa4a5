// Package metrics exposes Prometheus metrics for the mock server.
//
// Every Metrics value owns its registry, so several servers (or tests) can
// run in one process. All methods are safe on a nil *Metrics.
package metrics
