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

// Package lens implements the combinator algebra: composable,
// backtracking extractors over an RDF container (focus term, quad
// set). It carries no SHACL or datatype knowledge of its own; those
// live in path, datatype and shape, which are built on top of it.
package lens

import (
	"github.com/cayleygraph/quad"

	"github.com/rdf-lens/lens/internal/metrics"
)

// Container is the focus carried through a lens: an identifying value
// Q (usually a quad.Value term, sometimes a whole quad.Quad when a
// lens pivots to a triple) plus the quad set it was found in.
//
// The same backing slice is threaded through every sub-lens; Container
// values are never deep-copied.
type Container[Q any] struct {
	ID    Q
	Quads []quad.Quad
}

// TermContainer is the common case: a container focused on an RDF term.
type TermContainer = Container[quad.Value]

// QuadContainer is a container focused on a whole quad, used by
// primitives that pivot between a triple and its subject, predicate or
// object (match, predTriple).
type QuadContainer = Container[quad.Quad]

// NewTerm builds a TermContainer sharing the given quad slice.
func NewTerm(id quad.Value, quads []quad.Quad) TermContainer {
	return TermContainer{ID: id, Quads: quads}
}

// Record is the dynamic, string-keyed result of a shape lens. It is a
// plain Go map, which is a reference type: two callers holding the
// same Record value observe each other's mutations. That aliasing is
// exactly what closes cyclic shapes in Cached (see cached.go) without
// needing a dedicated boxed-cell type.
type Record map[string]any

// Frame is one entry of the lineage stack pushed by Named/NamedMulti.
type Frame struct {
	Name string
	Opts map[string]any
}

// RunContext is the per-execute() state threaded through a lens
// invocation: the cycle-closing memo table consulted by Cached, and a
// lineage stack used only for error reporting.
//
// A RunContext must never be shared between two top-level Execute
// calls; each call should allocate its own via NewRunContext.
type RunContext struct {
	memo    map[string][]cacheEntry
	lineage []Frame
	metrics *metrics.Recorder
}

// Option configures a RunContext at construction time.
type Option func(*RunContext)

// WithMetrics attaches a metrics.Recorder to the run. Errors raised
// and TypedExtract dispatches performed while this RunContext is in
// use are reported to it; a RunContext built without this option
// records nothing, at no cost (metrics.Recorder is nil-safe).
func WithMetrics(m *metrics.Recorder) Option {
	return func(rc *RunContext) { rc.metrics = m }
}

// NewRunContext allocates a fresh, empty run context.
func NewRunContext(opts ...Option) *RunContext {
	rc := &RunContext{memo: make(map[string][]cacheEntry)}
	for _, o := range opts {
		o(rc)
	}
	return rc
}

// Metrics returns the run's attached recorder, or nil if none was
// configured with WithMetrics.
func (rc *RunContext) Metrics() *metrics.Recorder { return rc.metrics }

// Clone copies the lineage stack so a failed branch (used by Or) can
// push frames without contaminating the lineage seen by the branch
// that is ultimately taken. The memo table is shared by reference,
// per spec: it is scoped to the run, not to the branch.
func (rc *RunContext) Clone() *RunContext {
	lineage := make([]Frame, len(rc.lineage))
	copy(lineage, rc.lineage)
	return &RunContext{memo: rc.memo, lineage: lineage, metrics: rc.metrics}
}

// Lineage returns a snapshot of the current lineage stack.
func (rc *RunContext) Lineage() []Frame {
	out := make([]Frame, len(rc.lineage))
	copy(out, rc.lineage)
	return out
}

func (rc *RunContext) push(name string, opts map[string]any) {
	rc.lineage = append(rc.lineage, Frame{Name: name, Opts: opts})
}

func (rc *RunContext) pop() {
	rc.lineage = rc.lineage[:len(rc.lineage)-1]
}

type cacheEntry struct {
	owner  any
	result Record
}
