// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics registers Prometheus metrics for the tree builder's
// provider calls, retries and per-level build duration, and implements
// treebuild.Metrics so a Builder can be wired to them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BuildMetrics holds all Prometheus metrics owned by a tree build. A
// single instance is created by New and passed to
// treebuild.WithMetrics, so tests can register against a fresh
// prometheus.Registry without polluting the default one.
type BuildMetrics struct {
	// providerCallsTotal counts provider calls, partitioned by service
	// ("embedder", "summarizer") and outcome ("ok", "error").
	providerCallsTotal *prometheus.CounterVec

	// providerCallDuration records the latency of each provider call.
	providerCallDuration *prometheus.HistogramVec

	// retriesTotal counts retry attempts, partitioned by service.
	retriesTotal *prometheus.CounterVec

	// levelDuration records how long each tree level took to build,
	// partitioned by level.
	levelDuration *prometheus.HistogramVec
}

// New registers build metrics against reg and returns the populated
// BuildMetrics.
func New(reg prometheus.Registerer) *BuildMetrics {
	factory := promauto.With(reg)

	return &BuildMetrics{
		providerCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "treebuild",
			Name:      "provider_calls_total",
			Help:      "Total number of AI provider calls made while building a tree, partitioned by service and outcome.",
		}, []string{"service", "outcome"}),

		providerCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finrag",
			Subsystem: "treebuild",
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of AI provider calls made while building a tree, partitioned by service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),

		retriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finrag",
			Subsystem: "treebuild",
			Name:      "retries_total",
			Help:      "Total number of provider-call retries, partitioned by service.",
		}, []string{"service"}),

		levelDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finrag",
			Subsystem: "treebuild",
			Name:      "level_duration_seconds",
			Help:      "Wall-clock duration of building one tree level, partitioned by level.",
			Buckets:   []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"level"}),
	}
}

// ObserveProviderCall implements treebuild.Metrics.
func (m *BuildMetrics) ObserveProviderCall(service string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.providerCallsTotal.WithLabelValues(service, outcome).Inc()
	m.providerCallDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// ObserveRetry implements treebuild.Metrics.
func (m *BuildMetrics) ObserveRetry(service string) {
	m.retriesTotal.WithLabelValues(service).Inc()
}

// ObserveLevelDuration implements treebuild.Metrics.
func (m *BuildMetrics) ObserveLevelDuration(level int, duration time.Duration) {
	m.levelDuration.WithLabelValues(strconv.Itoa(level)).Observe(duration.Seconds())
}
