package treebuild

import "time"

// Metrics receives build-time observations. The metrics package
// implements this against Prometheus collectors; builder.go depends
// only on this interface so treebuild never imports metrics.
type Metrics interface {
	ObserveProviderCall(service string, duration time.Duration, err error)
	ObserveRetry(service string)
	ObserveLevelDuration(level int, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveProviderCall(string, time.Duration, error) {}
func (noopMetrics) ObserveRetry(string)                              {}
func (noopMetrics) ObserveLevelDuration(int, time.Duration)          {}
