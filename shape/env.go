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
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"

	"github.com/rdf-lens/lens/datatype"
	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/vocab"
)

var envVariableIRI = quad.IRI(vocab.EnvVariable)

// EnvReplace implements the optional preprocessing pass (spec §4.J):
// every subject typed rdfl:EnvVariable is resolved via env the same
// way datatype.EnvLens resolves one in-line, every quad whose object
// is that subject gets the resolved literal substituted in, and the
// variable node's own concise bounded description is dropped from the
// output. Callers who prefer config.EnvModePreprocess over in-lens
// resolution run this once before handing quads to ExtractShapes.
func EnvReplace(env datatype.Env, quads []quad.Quad) ([]quad.Quad, error) {
	rc := lens.NewRunContext()
	typeIRI := quad.IRI(rdf.Type).Full()

	resolved := map[string]quad.Value{}
	dropped := map[string]bool{}

	for _, q := range quads {
		key := q.Subject.String()
		if dropped[key] {
			continue
		}
		if _, ok := resolved[key]; ok {
			continue
		}
		if !sameTerm(q.Predicate, typeIRI) || !sameTerm(q.Object, envVariableIRI) {
			continue
		}
		c := lens.NewTerm(q.Subject, quads)
		v, err := datatype.EnvLens(env, nil)(c, rc)
		if err != nil {
			return nil, err
		}
		resolved[key] = toQuadValue(v)

		desc, err := ConciseBoundedDescription(c, rc)
		if err != nil {
			return nil, err
		}
		for _, dq := range desc.([]quad.Quad) {
			dropped[dq.Subject.String()] = true
		}
	}

	if len(resolved) == 0 {
		return quads, nil
	}

	out := make([]quad.Quad, 0, len(quads))
	for _, q := range quads {
		if dropped[q.Subject.String()] {
			continue
		}
		if lit, ok := resolved[q.Object.String()]; ok {
			q.Object = lit
		}
		out = append(out, q)
	}
	return out, nil
}

// toQuadValue converts a datatype.Coerce result back to an RDF term so
// it can replace an object position in a quad.Quad.
func toQuadValue(v any) quad.Value {
	switch t := v.(type) {
	case quad.Value:
		return t
	case string:
		return quad.String(t)
	case int64:
		return quad.Int(t)
	case float64:
		return quad.Float(t)
	case bool:
		return quad.Bool(t)
	case time.Time:
		return quad.Time(t)
	default:
		return quad.String("")
	}
}
