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

// Single is a lens that produces exactly one T from a focus F, or
// fails. Go forbids methods from introducing new type parameters, so
// the combinators below are free functions rather than a fluent
// builder API (unlike the teacher's graph/path.Path, which can use
// method chaining because every step stays in the same concrete type).
type Single[F, T any] func(focus F, rc *RunContext) (T, error)

// Multi is a lens that produces an ordered, possibly empty sequence of
// T from a focus F. Tolerant combinators represent failure as an empty
// sequence; strict ones propagate an error instead.
type Multi[F, T any] func(focus F, rc *RunContext) ([]T, error)

// Map applies f to a Single lens's result. Pure: any error from f
// propagates (map is a strict combinator).
func Map[F, T, U any](l Single[F, T], f func(T) (U, error)) Single[F, U] {
	return func(focus F, rc *RunContext) (U, error) {
		var zero U
		v, err := l(focus, rc)
		if err != nil {
			return zero, err
		}
		return f(v)
	}
}

// MapAll applies f element-wise over a Multi lens's result.
func MapAll[F, T, U any](m Multi[F, T], f func(T) (U, error)) Multi[F, U] {
	return func(focus F, rc *RunContext) ([]U, error) {
		in, err := m(focus, rc)
		if err != nil {
			return nil, err
		}
		out := make([]U, 0, len(in))
		for _, v := range in {
			u, err := f(v)
			if err != nil {
				return nil, err
			}
			out = append(out, u)
		}
		return out, nil
	}
}

// Then sequentially composes l : F -> T with n : T -> U. Strict: n's
// failure propagates.
func Then[F, T, U any](l Single[F, T], n Single[T, U]) Single[F, U] {
	return func(focus F, rc *RunContext) (U, error) {
		var zero U
		v, err := l(focus, rc)
		if err != nil {
			return zero, err
		}
		return n(v, rc)
	}
}

// Pair is the result of And2.
type Pair[T, U any] struct {
	First  T
	Second U
}

// And2 runs both lenses on the same focus and pairs their results; any
// failure fails the whole (strict).
func And2[F, T, U any](l1 Single[F, T], l2 Single[F, U]) Single[F, Pair[T, U]] {
	return func(focus F, rc *RunContext) (Pair[T, U], error) {
		var zero Pair[T, U]
		t, err := l1(focus, rc)
		if err != nil {
			return zero, err
		}
		u, err := l2(focus, rc)
		if err != nil {
			return zero, err
		}
		return Pair[T, U]{First: t, Second: u}, nil
	}
}

// AndSlice runs every lens in ls against the same focus and folds
// their results with combine; any failure fails the whole (strict).
// This is the n-ary form of And2, used by the shape compiler to merge
// N field lenses into one Record.
func AndSlice[F, T any](ls []Single[F, T], combine func([]T) (T, error)) Single[F, T] {
	return func(focus F, rc *RunContext) (T, error) {
		var zero T
		out := make([]T, 0, len(ls))
		for _, l := range ls {
			v, err := l(focus, rc)
			if err != nil {
				return zero, err
			}
			out = append(out, v)
		}
		return combine(out)
	}
}

// Or tries l, then each alternative in order, until one succeeds. Each
// attempt runs against a cloned RunContext so a failed branch's
// lineage does not leak into the branch that is ultimately taken; the
// memo table is shared across the clones. If every alternative fails,
// Or fails with a MultiError collecting them all.
func Or[F, T any](l Single[F, T], alts ...Single[F, T]) Single[F, T] {
	all := append([]Single[F, T]{l}, alts...)
	return func(focus F, rc *RunContext) (T, error) {
		var zero T
		var errs []error
		for _, alt := range all {
			branch := rc.Clone()
			v, err := alt(focus, branch)
			if err == nil {
				rc.lineage = branch.lineage
				return v, nil
			}
			errs = append(errs, err)
		}
		return zero, &MultiError{Errors: errs}
	}
}

// OrM runs every alternative and collects the successes, in order,
// ignoring failures (tolerant).
func OrM[F, T any](ls ...Single[F, T]) Multi[F, T] {
	return func(focus F, rc *RunContext) ([]T, error) {
		var out []T
		for _, l := range ls {
			branch := rc.Clone()
			v, err := l(focus, branch)
			if err != nil {
				continue
			}
			rc.lineage = branch.lineage
			out = append(out, v)
		}
		return out, nil
	}
}

// OrAll concatenates the successful results of every Multi alternative,
// dropping any that fail (tolerant).
func OrAll[F, T any](ms ...Multi[F, T]) Multi[F, T] {
	return func(focus F, rc *RunContext) ([]T, error) {
		var out []T
		for _, m := range ms {
			branch := rc.Clone()
			vs, err := m(focus, branch)
			if err != nil {
				continue
			}
			rc.lineage = branch.lineage
			out = append(out, vs...)
		}
		return out, nil
	}
}

// AsMulti views a single vector-valued lens as a Multi lens.
func AsMulti[F, T any](l Single[F, []T]) Multi[F, T] {
	return func(focus F, rc *RunContext) ([]T, error) {
		return l(focus, rc)
	}
}

// One returns the first element of m, or a provided default if m
// yields nothing. Without a default, an empty result yields the zero
// value of T (use ExpectOne when absence must be an error).
func One[F, T any](m Multi[F, T], def ...T) Single[F, T] {
	return func(focus F, rc *RunContext) (T, error) {
		vs, err := m(focus, rc)
		if err != nil {
			var zero T
			return zero, err
		}
		if len(vs) > 0 {
			return vs[0], nil
		}
		if len(def) > 0 {
			return def[0], nil
		}
		var zero T
		return zero, nil
	}
}

// ExpectOne returns the first element of m, failing if m yields
// nothing.
func ExpectOne[F, T any](m Multi[F, T]) Single[F, T] {
	return func(focus F, rc *RunContext) (T, error) {
		var zero T
		vs, err := m(focus, rc)
		if err != nil {
			return zero, err
		}
		if len(vs) == 0 {
			return zero, NewError(rc, KindMissingRequired, "expected exactly one result, got none")
		}
		return vs[0], nil
	}
}

// ThenAll applies n to every element m produces. Strict: any
// per-element failure propagates and fails the whole lens.
func ThenAll[F, T, U any](m Multi[F, T], n Single[T, U]) Multi[F, U] {
	return func(focus F, rc *RunContext) ([]U, error) {
		vs, err := m(focus, rc)
		if err != nil {
			return nil, err
		}
		out := make([]U, 0, len(vs))
		for _, v := range vs {
			u, err := n(v, rc)
			if err != nil {
				return nil, err
			}
			out = append(out, u)
		}
		return out, nil
	}
}

// ThenSome applies n to every element m produces, dropping elements
// where n fails (tolerant).
func ThenSome[F, T, U any](m Multi[F, T], n Single[T, U]) Multi[F, U] {
	return func(focus F, rc *RunContext) ([]U, error) {
		vs, err := m(focus, rc)
		if err != nil {
			return nil, err
		}
		out := make([]U, 0, len(vs))
		for _, v := range vs {
			branch := rc.Clone()
			u, err := n(v, branch)
			if err != nil {
				continue
			}
			rc.lineage = branch.lineage
			out = append(out, u)
		}
		return out, nil
	}
}

// ThenFlat flat-maps n over every element m produces (tolerant: an
// empty inner result for one element simply contributes nothing).
func ThenFlat[F, T, U any](m Multi[F, T], n Multi[T, U]) Multi[F, U] {
	return func(focus F, rc *RunContext) ([]U, error) {
		vs, err := m(focus, rc)
		if err != nil {
			return nil, err
		}
		var out []U
		for _, v := range vs {
			us, err := n(v, rc)
			if err != nil {
				return nil, err
			}
			out = append(out, us...)
		}
		return out, nil
	}
}

// Filter keeps only the elements of m for which p holds.
func Filter[F, T any](m Multi[F, T], p func(T) bool) Multi[F, T] {
	return func(focus F, rc *RunContext) ([]T, error) {
		vs, err := m(focus, rc)
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, len(vs))
		for _, v := range vs {
			if p(v) {
				out = append(out, v)
			}
		}
		return out, nil
	}
}

// Reduce left-folds m's elements into an accumulator seeded by init.
func Reduce[F, T, A any](m Multi[F, T], step func(T, A) (A, error), init Single[F, A]) Single[F, A] {
	return func(focus F, rc *RunContext) (A, error) {
		acc, err := init(focus, rc)
		if err != nil {
			return acc, err
		}
		vs, err := m(focus, rc)
		if err != nil {
			var zero A
			return zero, err
		}
		for _, v := range vs {
			acc, err = step(v, acc)
			if err != nil {
				var zero A
				return zero, err
			}
		}
		return acc, nil
	}
}

// Named tags a Single lens with a debug name and optional parameters,
// pushing a lineage frame while it executes. dyn, when non-nil, is
// evaluated against the focus to compute the frame's options
// dynamically (e.g. to record which predicate a pred() call used).
func Named[F, T any](name string, opts map[string]any, dyn func(F) map[string]any, l Single[F, T]) Single[F, T] {
	return func(focus F, rc *RunContext) (T, error) {
		frameOpts := opts
		if dyn != nil {
			frameOpts = dyn(focus)
		}
		rc.push(name, frameOpts)
		defer rc.pop()
		return l(focus, rc)
	}
}

// NamedMulti is Named for Multi lenses.
func NamedMulti[F, T any](name string, opts map[string]any, dyn func(F) map[string]any, m Multi[F, T]) Multi[F, T] {
	return func(focus F, rc *RunContext) ([]T, error) {
		frameOpts := opts
		if dyn != nil {
			frameOpts = dyn(focus)
		}
		rc.push(name, frameOpts)
		defer rc.pop()
		return m(focus, rc)
	}
}
