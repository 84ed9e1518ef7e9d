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

// Package path compiles a SHACL path node into a lens.Multi that
// navigates the graph from a focus container (spec §4.E). Compilation
// dispatches on the shape of the path node itself rather than trying
// each path kind in turn and falling back on failure (Open Question 1
// in the design notes): the presence of sh:alternativePath,
// sh:inversePath, one of the three repetition predicates, or the node
// being an rdf:list head each unambiguously identifies the path kind.
package path

import (
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"

	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/vocab"
)

var (
	shAlternativePath = quad.IRI(vocab.AlternativePath)
	shInversePath     = quad.IRI(vocab.InversePath)
	shZeroOrMorePath  = quad.IRI(vocab.ZeroOrMorePath)
	shOneOrMorePath   = quad.IRI(vocab.OneOrMorePath)
	shZeroOrOnePath   = quad.IRI(vocab.ZeroOrOnePath)
)

// Compile turns the path node at c into a navigation lens. It inspects
// c's own quads to decide which of the five path kinds (§4.E) applies,
// then recurses into the sub-expression(s) that kind requires.
func Compile(c lens.TermContainer, rc *lens.RunContext) (lens.Multi[lens.TermContainer, lens.TermContainer], error) {
	if alts, err := lens.Pred(shAlternativePath)(c, rc); err != nil {
		return nil, err
	} else if len(alts) == 1 {
		return compileAlternative(alts[0], rc)
	}

	if invs, err := lens.Pred(shInversePath)(c, rc); err != nil {
		return nil, err
	} else if len(invs) == 1 {
		return compileInverse(invs[0], rc)
	}

	if kind, bound, ok, err := repetitionBound(c, rc); err != nil {
		return nil, err
	} else if ok {
		return compileRepetition(kind, bound, rc)
	}

	if isListNode(c) {
		return compileSequence(c, rc)
	}

	return compilePredicate(c), nil
}

// CompileLens is Compile as a lens.Single value, so a path node can
// itself be the output of another lens (rdfl:PathLens, spec §4.G).
var CompileLens lens.Single[lens.TermContainer, lens.Multi[lens.TermContainer, lens.TermContainer]] = Compile

func isListNode(c lens.TermContainer) bool {
	if c.ID.String() == rdfNilString {
		return true
	}
	for _, q := range c.Quads {
		if !sameTerm(q.Subject, c.ID) {
			continue
		}
		if sameTerm(q.Predicate, rdfFirstTerm) {
			return true
		}
	}
	return false
}

func compileSequence(c lens.TermContainer, rc *lens.RunContext) (lens.Multi[lens.TermContainer, lens.TermContainer], error) {
	elems, err := lens.DecodeList(c, rc)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return func(focus lens.TermContainer, _ *lens.RunContext) ([]lens.TermContainer, error) {
			return []lens.TermContainer{focus}, nil
		}, nil
	}
	steps := make([]lens.Multi[lens.TermContainer, lens.TermContainer], 0, len(elems))
	for _, e := range elems {
		step, err := Compile(e, rc)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	combined := steps[0]
	for _, next := range steps[1:] {
		combined = lens.ThenFlat(combined, next)
	}
	return combined, nil
}

func compileAlternative(head lens.TermContainer, rc *lens.RunContext) (lens.Multi[lens.TermContainer, lens.TermContainer], error) {
	elems, err := lens.DecodeList(head, rc)
	if err != nil {
		return nil, err
	}
	options := make([]lens.Multi[lens.TermContainer, lens.TermContainer], 0, len(elems))
	for _, e := range elems {
		opt, err := Compile(e, rc)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return lens.OrAll(options...), nil
}

func compileInverse(target lens.TermContainer, rc *lens.RunContext) (lens.Multi[lens.TermContainer, lens.TermContainer], error) {
	if isListNode(target) {
		elems, err := lens.DecodeList(target, rc)
		if err != nil {
			return nil, err
		}
		steps := make([]lens.Multi[lens.TermContainer, lens.TermContainer], len(elems))
		for i := len(elems) - 1; i >= 0; i-- {
			steps[len(elems)-1-i] = lens.InvPred(elems[i].ID)
		}
		if len(steps) == 0 {
			return func(focus lens.TermContainer, _ *lens.RunContext) ([]lens.TermContainer, error) {
				return []lens.TermContainer{focus}, nil
			}, nil
		}
		combined := steps[0]
		for _, next := range steps[1:] {
			combined = lens.ThenFlat(combined, next)
		}
		return combined, nil
	}
	return lens.InvPred(target.ID), nil
}

type repetitionKind int

const (
	zeroOrMore repetitionKind = iota
	oneOrMore
	zeroOrOne
)

func repetitionBound(c lens.TermContainer, rc *lens.RunContext) (repetitionKind, lens.TermContainer, bool, error) {
	if vs, err := lens.Pred(shZeroOrMorePath)(c, rc); err != nil {
		return 0, lens.TermContainer{}, false, err
	} else if len(vs) == 1 {
		return zeroOrMore, vs[0], true, nil
	}
	if vs, err := lens.Pred(shOneOrMorePath)(c, rc); err != nil {
		return 0, lens.TermContainer{}, false, err
	} else if len(vs) == 1 {
		return oneOrMore, vs[0], true, nil
	}
	if vs, err := lens.Pred(shZeroOrOnePath)(c, rc); err != nil {
		return 0, lens.TermContainer{}, false, err
	} else if len(vs) == 1 {
		return zeroOrOne, vs[0], true, nil
	}
	return 0, lens.TermContainer{}, false, nil
}

// compileRepetition implements bounded repeated application of the
// inner path: starting from the focus, it expands one step at a time,
// emitting every node whose repetition count falls in [min, max] and
// stopping once expansion yields nothing new or max is reached.
func compileRepetition(kind repetitionKind, inner lens.TermContainer, rc *lens.RunContext) (lens.Multi[lens.TermContainer, lens.TermContainer], error) {
	step, err := Compile(inner, rc)
	if err != nil {
		return nil, err
	}
	min, max := 0, -1
	switch kind {
	case oneOrMore:
		min = 1
	case zeroOrOne:
		max = 1
	}
	return func(focus lens.TermContainer, rc *lens.RunContext) ([]lens.TermContainer, error) {
		var out []lens.TermContainer
		frontier := []lens.TermContainer{focus}
		emitted := map[string]bool{}
		// visited tracks every node ever admitted to the expansion
		// frontier, so a cyclic graph (a next b, b next a) shrinks
		// `next` to empty instead of re-expanding forever.
		visited := map[string]bool{focus.ID.String(): true}
		for count := 0; ; count++ {
			if max >= 0 && count > max {
				break
			}
			if count >= min {
				for _, f := range frontier {
					key := f.ID.String()
					if emitted[key] {
						continue
					}
					emitted[key] = true
					out = append(out, f)
				}
			}
			if max >= 0 && count == max {
				break
			}
			var next []lens.TermContainer
			for _, f := range frontier {
				expanded, err := step(f, rc)
				if err != nil {
					return nil, err
				}
				for _, e := range expanded {
					key := e.ID.String()
					if visited[key] {
						continue
					}
					visited[key] = true
					next = append(next, e)
				}
			}
			if len(next) == 0 {
				break
			}
			frontier = next
		}
		return out, nil
	}, nil
}

func compilePredicate(c lens.TermContainer) lens.Multi[lens.TermContainer, lens.TermContainer] {
	return lens.Pred(c.ID)
}

var (
	rdfNilString = quad.IRI(rdf.Nil).Full().String()
	rdfFirstTerm = quad.IRI(rdf.First).Full()
)

func sameTerm(a, b quad.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}
