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

package lens

import "github.com/cayleygraph/quad"

// valuesEqual compares two quad.Value terms structurally, preferring
// the Equaler interface (quad.Time implements it) and falling back to
// a direct compare, then to string form for mixed concrete types.
func valuesEqual(a, b quad.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(quad.Equaler); ok {
		return eq.Equal(b)
	}
	if a == b {
		return true
	}
	return a.String() == b.String()
}

// Pred returns all containers {ID: q.Object, Quads} for every quad in
// the focus's quad set whose Subject matches the focus and, if p is
// non-nil, whose Predicate equals p. Ordering follows the quads slice.
func Pred(p quad.Value) Multi[TermContainer, TermContainer] {
	name := "pred"
	return NamedMulti(name, nil, func(c TermContainer) map[string]any {
		return map[string]any{"predicate": p}
	}, func(c TermContainer, rc *RunContext) ([]TermContainer, error) {
		var out []TermContainer
		for _, q := range c.Quads {
			if !valuesEqual(q.Subject, c.ID) {
				continue
			}
			if p != nil && !valuesEqual(q.Predicate, p) {
				continue
			}
			out = append(out, NewTerm(q.Object, c.Quads))
		}
		return out, nil
	})
}

// InvPred is the dual of Pred: it returns the subjects of matching
// quads whose Object matches the focus.
func InvPred(p quad.Value) Multi[TermContainer, TermContainer] {
	return NamedMulti("invPred", nil, func(c TermContainer) map[string]any {
		return map[string]any{"predicate": p}
	}, func(c TermContainer, rc *RunContext) ([]TermContainer, error) {
		var out []TermContainer
		for _, q := range c.Quads {
			if !valuesEqual(q.Object, c.ID) {
				continue
			}
			if p != nil && !valuesEqual(q.Predicate, p) {
				continue
			}
			out = append(out, NewTerm(q.Subject, c.Quads))
		}
		return out, nil
	})
}

// PredTriple is like Pred but pivots the focus to the matching quad
// itself, rather than its object, so a subsequent lens can inspect
// subject/predicate/object independently.
func PredTriple(p quad.Value) Multi[TermContainer, QuadContainer] {
	return NamedMulti("predTriple", nil, func(c TermContainer) map[string]any {
		return map[string]any{"predicate": p}
	}, func(c TermContainer, rc *RunContext) ([]QuadContainer, error) {
		var out []QuadContainer
		for _, q := range c.Quads {
			if !valuesEqual(q.Subject, c.ID) {
				continue
			}
			if p != nil && !valuesEqual(q.Predicate, p) {
				continue
			}
			out = append(out, QuadContainer{ID: q, Quads: c.Quads})
		}
		return out, nil
	})
}

// Match yields one QuadContainer per quad in quads matching the
// non-nil components of s, p, o.
func Match(quads []quad.Quad, s, p, o quad.Value) Multi[QuadContainer, QuadContainer] {
	return func(_ QuadContainer, rc *RunContext) ([]QuadContainer, error) {
		var out []QuadContainer
		for _, q := range quads {
			if s != nil && !valuesEqual(q.Subject, s) {
				continue
			}
			if p != nil && !valuesEqual(q.Predicate, p) {
				continue
			}
			if o != nil && !valuesEqual(q.Object, o) {
				continue
			}
			out = append(out, QuadContainer{ID: q, Quads: quads})
		}
		return out, nil
	}
}

// MatchFrom is Match that starts from the bare quad set rather than a
// pre-existing container, for use at the root of a pipeline.
func MatchFrom(quads []quad.Quad, s, p, o quad.Value) ([]QuadContainer, error) {
	return Match(quads, s, p, o)(QuadContainer{Quads: quads}, NewRunContext())
}

// Subjects yields a container per subject appearing in quads,
// duplicates included (one per occurrence as a subject).
func Subjects(quads []quad.Quad) []TermContainer {
	out := make([]TermContainer, 0, len(quads))
	for _, q := range quads {
		out = append(out, NewTerm(q.Subject, quads))
	}
	return out
}

// termRank orders term kinds for Unique's emission order: Literals,
// then NamedNodes, then BlankNodes.
func termRank(v quad.Value) int {
	switch v.(type) {
	case quad.IRI:
		return 1
	case quad.BNode:
		return 2
	default:
		return 0 // literals: String, TypedString, LangString, Int, Float, Bool, Time
	}
}

// Unique deduplicates containers by (termType, value), preserving
// first-occurrence order within each of the three rank groups.
func Unique() Multi[[]TermContainer, TermContainer] {
	return func(cs []TermContainer, rc *RunContext) ([]TermContainer, error) {
		seen := make(map[string]bool)
		groups := make([][]TermContainer, 3)
		for _, c := range cs {
			key := c.ID.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			r := termRank(c.ID)
			groups[r] = append(groups[r], c)
		}
		var out []TermContainer
		out = append(out, groups[0]...)
		out = append(out, groups[1]...)
		out = append(out, groups[2]...)
		return out, nil
	}
}

// Subject pivots a QuadContainer to a TermContainer on its subject.
func Subject(c QuadContainer, rc *RunContext) (TermContainer, error) {
	return NewTerm(c.ID.Subject, c.Quads), nil
}

// Predicate pivots a QuadContainer to a TermContainer on its predicate.
func Predicate(c QuadContainer, rc *RunContext) (TermContainer, error) {
	return NewTerm(c.ID.Predicate, c.Quads), nil
}

// Object pivots a QuadContainer to a TermContainer on its object.
func Object(c QuadContainer, rc *RunContext) (TermContainer, error) {
	return NewTerm(c.ID.Object, c.Quads), nil
}

// Empty is the identity lens.
func Empty[F any](focus F, rc *RunContext) (F, error) {
	return focus, nil
}
