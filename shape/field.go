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

package shape

import (
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/rdf-lens/lens/datatype"
	"github.com/rdf-lens/lens/lens"
)

// classExtractor resolves a field declared `sh:class CLASS` by a
// deferred lookup into the shared cache at execute time (spec §4.G
// step 3, §9 late binding). The lookup itself never consults the
// instance's rdf:type — that is what lets a shape reference another
// shape before the latter has compiled, and is also the documented
// resolution of Open Question 4: a sh:class field always uses
// cache[expected-class] verbatim, with no subclass walk.
//
// The resolved lens is Cached exactly once, at field-compile time, not
// per invocation: a direct `sh:class X` self-reference needs the same
// cycle termination TypedExtract gets from its own Cached wrapping
// (spec §4.I, property 6), and reusing one wrapper across calls is
// what lets the memo table recognise "already visited this id through
// this field" within a single run.
func classExtractor(cache *Cache, class quad.Value) lens.Single[lens.TermContainer, any] {
	key := class.String()
	cached := lens.Cached(func(c lens.TermContainer, rc *lens.RunContext) (lens.Record, error) {
		l, ok := cache.Get(key)
		if !ok {
			return nil, lens.NewError(rc, lens.KindUnknownClass, fmt.Sprintf("no shape registered for class %s", key))
		}
		v, err := l(c, rc)
		if err != nil {
			return nil, err
		}
		rec, ok := v.(lens.Record)
		if !ok {
			return nil, lens.NewError(rc, lens.KindWrongType, fmt.Sprintf("class %s did not resolve to a record", key))
		}
		return rec, nil
	})
	return func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
		return cached(c, rc)
	}
}

// datatypeExtractor resolves a field declared `sh:datatype DT`: try
// decoding it as an rdfl:EnvVariable node first, falling back to plain
// literal coercion (spec §4.F/§4.G).
func datatypeExtractor(dt quad.Value) lens.Single[lens.TermContainer, any] {
	envOrCoerce := lens.Or(
		datatype.EnvLens(datatype.OSEnv{}, dt),
		func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
			return datatype.Coerce(dt, c.ID)
		},
	)
	return envOrCoerce
}

// toLens compiles a Shape's fields into a single Record-producing
// lens, merging all fields by record union (spec §4.G "toLens").
func toLens(sh Shape) lens.Single[lens.TermContainer, lens.Record] {
	fieldLenses := make([]lens.Single[lens.TermContainer, lens.Record], 0, len(sh.Fields))
	for _, f := range sh.Fields {
		fieldLenses = append(fieldLenses, compileField(f))
	}
	return lens.AndSlice(fieldLenses, func(rs []lens.Record) (lens.Record, error) {
		out := lens.Record{}
		for _, r := range rs {
			for k, v := range r {
				out[k] = v
			}
		}
		return out, nil
	})
}

// compileField implements the maxCount<=1 scalar case vs. the
// RDF-list-or-repeated-predicate multi-value case (spec §4.G toLens).
func compileField(f ShapeField) lens.Single[lens.TermContainer, lens.Record] {
	if f.MaxCount != nil && *f.MaxCount <= 1 {
		return scalarField(f)
	}
	return listField(f)
}

func scalarField(f ShapeField) lens.Single[lens.TermContainer, lens.Record] {
	return func(c lens.TermContainer, rc *lens.RunContext) (lens.Record, error) {
		matches, err := f.Path(c, rc)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			if f.MinCount > 0 {
				return nil, lens.NewError(rc, lens.KindMissingRequired,
					fmt.Sprintf("missing required field %q", f.Name))
			}
			return lens.Record{}, nil
		}
		if f.MaxCount != nil && len(matches) > *f.MaxCount {
			return nil, lens.NewError(rc, lens.KindCardinality,
				fmt.Sprintf("field %q expected at most %d values, got %d", f.Name, *f.MaxCount, len(matches)))
		}
		val, err := f.Extract(matches[0], rc)
		if err != nil {
			return nil, err
		}
		return lens.Record{f.Name: val}, nil
	}
}

func listField(f ShapeField) lens.Single[lens.TermContainer, lens.Record] {
	return func(c lens.TermContainer, rc *lens.RunContext) (lens.Record, error) {
		matches, err := f.Path(c, rc)
		if err != nil {
			return nil, err
		}
		var elems []lens.TermContainer
		for _, m := range matches {
			decoded, err := lens.DecodeListOrSingleton(m, rc)
			if err != nil {
				return nil, err
			}
			elems = append(elems, decoded...)
		}
		vals := make([]any, 0, len(elems))
		for _, e := range elems {
			v, err := f.Extract(e, rc)
			if err != nil {
				return nil, err
			}
			if v != nil {
				vals = append(vals, v)
			}
		}
		if f.MinCount > 0 && len(vals) < f.MinCount {
			return nil, lens.NewError(rc, lens.KindCardinality,
				fmt.Sprintf("field %q expected at least %d values, got %d", f.Name, f.MinCount, len(vals)))
		}
		if f.MaxCount != nil && len(vals) > *f.MaxCount {
			return nil, lens.NewError(rc, lens.KindCardinality,
				fmt.Sprintf("field %q expected at most %d values, got %d", f.Name, *f.MaxCount, len(vals)))
		}
		if len(vals) == 0 && f.MinCount == 0 {
			return lens.Record{}, nil
		}
		return lens.Record{f.Name: vals}, nil
	}
}
