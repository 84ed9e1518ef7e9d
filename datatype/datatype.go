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

// Package datatype implements the XSD literal coercer (spec §4.F) and
// the EnvVariable lens (spec §4.J / §6) built on top of it.
package datatype

import (
	"strconv"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/vocab"
)

// Coerce converts the literal term t into a native Go value according
// to the requested XSD datatype dt. Unknown or unrecognised datatypes
// pass the term through unchanged, per spec §4.F.
func Coerce(dt quad.Value, t quad.Value) (any, error) {
	lexical := lexicalForm(t)
	switch fullOf(dt) {
	case vocab.Integer:
		v, err := strconv.ParseInt(lexical, 10, 64)
		if err != nil {
			return nil, err
		}
		return v, nil
	case vocab.Float, vocab.Double, vocab.Decimal:
		v, err := strconv.ParseFloat(lexical, 64)
		if err != nil {
			return nil, err
		}
		return v, nil
	case vocab.String:
		return lexical, nil
	case vocab.DateTime:
		v, err := time.Parse(time.RFC3339, lexical)
		if err != nil {
			return nil, err
		}
		return v, nil
	case vocab.Boolean:
		return lexical == "true", nil
	case vocab.IRI, vocab.AnyURI:
		return quad.IRI(lexical), nil
	default:
		return t, nil
	}
}

// fullOf normalises a datatype term to its full IRI form so callers
// may pass either a prefixed shorthand (`xsd:integer`) or the full
// vocab constants, consistent with how the teacher's quad.IRI.Full
// expands a registered prefix.
func fullOf(dt quad.Value) string {
	if iri, ok := dt.(quad.IRI); ok {
		return string(iri.Full())
	}
	return quad.StringOf(dt)
}

// Lexical exposes lexicalForm for callers outside this package (the
// shape compiler reads sh:name, sh:minCount and sh:maxCount literals
// the same way the coercer reads literal values).
func Lexical(t quad.Value) string { return lexicalForm(t) }

// lexicalForm extracts the lexical string form of a literal term,
// handling quad's several literal representations.
func lexicalForm(t quad.Value) string {
	switch v := t.(type) {
	case quad.String:
		return string(v)
	case quad.TypedString:
		return string(v.Value)
	case quad.LangString:
		return string(v.Value)
	case quad.Int:
		return strconv.FormatInt(int64(v), 10)
	case quad.Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case quad.Bool:
		if bool(v) {
			return "true"
		}
		return "false"
	case quad.IRI:
		return string(v)
	default:
		return quad.StringOf(t)
	}
}

// CoerceLens builds a field extractor that coerces a term container's
// ID to the native value for datatype dt.
func CoerceLens(dt quad.Value) lens.Single[lens.TermContainer, any] {
	return func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
		return Coerce(dt, c.ID)
	}
}
