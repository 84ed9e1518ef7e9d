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

import (
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
)

// rdf.First/Rest/Nil are expanded to full IRIs via Full() so they
// compare correctly against already-parsed quad data regardless of
// whether the upstream voc/rdf package defines them in short or full
// form.
var (
	rdfFirst = quad.IRI(rdf.First).Full()
	rdfRest  = quad.IRI(rdf.Rest).Full()
	rdfNil   = quad.IRI(rdf.Nil).Full()
)

// DecodeList decodes the rdf:first/rdf:rest linked list rooted at the
// focus into an ordered slice of TermContainer, one per element.
// rdf:nil decodes to an empty slice. A focus that is neither rdf:nil
// nor a well-formed list node (exactly one rdf:first and one
// rdf:rest) fails loudly; the function does not attempt to recover
// from branching or cyclic lists.
func DecodeList(c TermContainer, rc *RunContext) ([]TermContainer, error) {
	if valuesEqual(c.ID, rdfNil) {
		return nil, nil
	}
	firsts, err := Pred(rdfFirst)(c, rc)
	if err != nil {
		return nil, err
	}
	if len(firsts) != 1 {
		return nil, NewError(rc, KindListMalformed,
			"rdf list node must have exactly one rdf:first")
	}
	rests, err := Pred(rdfRest)(c, rc)
	if err != nil {
		return nil, err
	}
	if len(rests) != 1 {
		return nil, NewError(rc, KindListMalformed,
			"rdf list node must have exactly one rdf:rest")
	}
	tail, err := DecodeList(rests[0], rc)
	if err != nil {
		return nil, err
	}
	return append([]TermContainer{firsts[0]}, tail...), nil
}

// DecodeListLens is DecodeList as a Multi lens value.
var DecodeListLens Multi[TermContainer, TermContainer] = DecodeList

// DecodeListOrSingleton tries to decode the focus as an RDF list; if
// that fails, it treats the focus itself as a one-element list. This
// lets shape fields accept either `( a b c )` or a bare repeated
// predicate target.
func DecodeListOrSingleton(c TermContainer, rc *RunContext) ([]TermContainer, error) {
	branch := rc.Clone()
	if vs, err := DecodeList(c, branch); err == nil {
		rc.lineage = branch.lineage
		return vs, nil
	}
	return []TermContainer{c}, nil
}
