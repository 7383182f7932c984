// Copyright 2025 walteh LLC
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

// Package metrics exposes Prometheus counters for bulk file operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/walteh/twinpane/pkg/fserr"
)

const namespace = "twinpane"

// 📊 Metrics holds the engine's collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	filesCopied  prometheus.Counter
	bytesCopied  prometheus.Counter
	fileFailures prometheus.Counter
	stagedItems  prometheus.Gauge
	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// 🏭 New registers the collectors on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		filesCopied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_copied_total",
			Help:      "Files written by copy, paste and move operations",
		}),
		bytesCopied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_copied_total",
			Help:      "Bytes written by copy, paste and move operations",
		}),
		fileFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_failures_total",
			Help:      "Files that could not be copied",
		}),
		stagedItems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "staged_items",
			Help:      "Items currently held in the staging area",
		}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Bulk operations by action and result",
		}, []string{"action", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Bulk operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) FileCopied(bytes int64) {
	if m == nil {
		return
	}
	m.filesCopied.Inc()
	m.bytesCopied.Add(float64(bytes))
}

func (m *Metrics) FileFailed() {
	if m == nil {
		return
	}
	m.fileFailures.Inc()
}

// SetStaged records the size of the staged set.
func (m *Metrics) SetStaged(n int) {
	if m == nil {
		return
	}
	m.stagedItems.Set(float64(n))
}

// ⏱️ ObserveOperation counts a finished operation and its duration
func (m *Metrics) ObserveOperation(action string, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(action, Result(err)).Inc()
	m.duration.WithLabelValues(action).Observe(took.Seconds())
}

// Result is the label value for an operation outcome.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case fserr.IsKind(err, fserr.KindCanceledByUser):
		return "canceled"
	case fserr.IsKind(err, fserr.KindConflict):
		return "conflict"
	default:
		return "error"
	}
}
