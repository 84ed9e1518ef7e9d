// Copyright 2024 The rdf-lens Authors. All rights reserved.
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

// Package metrics records Prometheus counters and histograms for the
// extraction engine, patterned on graph/kv/metrics.go in the teacher
// repo (promauto-registered vectors, one file, package-private
// variables). Unlike the teacher's package-level globals, a Recorder
// here is a value a caller constructs and threads through explicitly
// via lens.WithMetrics, so two RunContexts (e.g. two test cases) never
// share state through a shared metrics registry, and a library caller
// who never builds a Recorder pays nothing.
//
// Every method has a nil receiver check: a nil *Recorder is the
// library default and silently does nothing, the same "optional,
// nil-safe" shape the rest of the ambient stack carries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the extraction-engine metrics registered against a
// single prometheus.Registerer.
type Recorder struct {
	extractions prometheus.Counter
	duration    prometheus.Histogram
	errors      *prometheus.CounterVec
}

// NewRecorder registers a fresh set of collectors against reg. Pass
// prometheus.DefaultRegisterer to expose them on the process-wide
// /metrics endpoint, or a private *prometheus.Registry in tests that
// construct more than one Recorder in the same process.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		extractions: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdflens_extractions_total",
			Help: "Number of TypedExtract dispatches completed.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "rdflens_extraction_seconds",
			Help: "Time to run a single TypedExtract dispatch.",
		}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rdflens_errors_total",
			Help: "Number of lens.Error values raised, by kind.",
		}, []string{"kind"}),
	}
}

// ObserveExtraction records one completed TypedExtract dispatch and
// how long it took.
func (r *Recorder) ObserveExtraction(d time.Duration) {
	if r == nil {
		return
	}
	r.extractions.Inc()
	r.duration.Observe(d.Seconds())
}

// IncError records one lens.Error of the given kind.
func (r *Recorder) IncError(kind string) {
	if r == nil {
		return
	}
	r.errors.WithLabelValues(kind).Inc()
}
