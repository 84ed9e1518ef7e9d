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

// Package shape compiles a SHACL shapes graph into executable lenses
// (spec §4.G/§4.H): one Shape per sh:NodeShape/sh:targetClass pair,
// dispatched by rdf:type through rdfl:TypedExtract.
package shape

import (
	"fmt"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"

	"github.com/rdf-lens/lens/datatype"
	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/path"
	"github.com/rdf-lens/lens/vocab"
)

var (
	rdfTypeIRI      = quad.IRI(rdf.Type).Full()
	rdfsSubClassOf  = quad.IRI(rdfs.SubClassOf).Full()
	shNodeShape     = quad.IRI(vocab.NodeShape)
	shTargetClass   = quad.IRI(vocab.TargetClass)
	shProperty      = quad.IRI(vocab.Property)
	shPath          = quad.IRI(vocab.Path)
	shName          = quad.IRI(vocab.Name)
	shDescription   = quad.IRI(vocab.Description)
	shClass         = quad.IRI(vocab.Class)
	shDatatype      = quad.IRI(vocab.Datatype)
	shMinCount      = quad.IRI(vocab.MinCount)
	shMaxCount      = quad.IRI(vocab.MaxCount)
	rdfsClassIRI    = quad.IRI(rdfs.Class).Full()
)

// ShapeField is one compiled sh:property entry.
type ShapeField struct {
	Name     string
	MinCount int
	// MaxCount is nil for "unbounded" (no sh:maxCount given).
	MaxCount *int
	Path     lens.Multi[lens.TermContainer, lens.TermContainer]
	Extract  lens.Single[lens.TermContainer, any]
}

// Shape is one target-class/field-list pair. Two Shapes produced from
// the same sh:NodeShape (one per sh:targetClass) share the same Fields
// slice (spec §4.G step 3).
type Shape struct {
	Class       quad.IRI
	Description string
	Fields      []ShapeField
}

// SubClassMap maps a class IRI to its declared parents, built from
// every `?c rdfs:subClassOf ?p` triple in the shapes graph.
type SubClassMap map[string][]string

// Shapes is the result of ExtractShapes: every compiled Shape, the
// class-to-lens cache backing them (and the three built-in pseudo-
// classes), and the subclass graph used to walk ancestors.
type Shapes struct {
	Shapes     []Shape
	Cache      *Cache
	SubClasses SubClassMap
}

// Apply is a post-processing hook run on a TypedExtract result after
// dispatch (spec §6: `apply?: Map<ClassIRI, (value)->value>`).
type Apply = func(lens.Record) (lens.Record, error)

// ExtractShapes compiles every sh:NodeShape in quads into a Shape and
// registers it under its target class(es). apply and customClasses are
// both optional: apply lets a caller post-process a TypedExtract result
// per class, customClasses pre-seeds the cache with extra lenses (e.g.
// classes the shapes graph itself never describes) before user shapes
// are compiled, so a shape's sh:class field may reference them too.
func ExtractShapes(quads []quad.Quad, apply map[quad.IRI]Apply, customClasses map[quad.IRI]lens.Single[lens.TermContainer, any]) (*Shapes, error) {
	subClasses := SubClassMap{}
	for _, q := range quads {
		if !sameTerm(q.Predicate, rdfsSubClassOf) {
			continue
		}
		child, parent := q.Subject.String(), q.Object.String()
		subClasses[child] = append(subClasses[child], parent)
	}

	cache := NewCache()
	seedBuiltins(cache)
	for class, l := range customClasses {
		cache.Register(class.String(), l)
	}

	rc := lens.NewRunContext()
	subjectsRaw := lens.Subjects(quads)
	subjects, err := lens.Unique()(subjectsRaw, rc)
	if err != nil {
		return nil, err
	}

	var shapes []Shape
	for _, subj := range subjects {
		extracted, ok, err := extractShape(subj, cache, rc)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		shapes = append(shapes, extracted...)
	}

	for _, sh := range shapes {
		compiled := toLens(sh)
		cache.Register(sh.Class.String(), func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
			return compiled(c, rc)
		})
	}

	applyByClass := map[string]Apply{}
	for class, fn := range apply {
		applyByClass[class.String()] = fn
	}
	cache.Register(vocab.TypedExtract, buildTypedExtract(cache, subClasses, applyByClass))

	return &Shapes{Shapes: shapes, Cache: cache, SubClasses: subClasses}, nil
}

func seedBuiltins(cache *Cache) {
	cache.Register(vocab.PathLens, func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
		return path.Compile(c, rc)
	})
	cache.Register(vocab.CBD, ConciseBoundedDescription)
	cache.Register(vocab.Context, func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
		return c.Quads, nil
	})
}

// extractShape attempts to compile subj into zero or more Shapes (one
// per sh:targetClass). It returns ok=false when subj is not a
// sh:NodeShape at all, which is not an error — most subjects in a
// shapes graph are plain property-shape or path-expression nodes.
func extractShape(subj lens.TermContainer, cache *Cache, rc *lens.RunContext) ([]Shape, bool, error) {
	types, err := lens.Pred(rdfTypeIRI)(subj, rc)
	if err != nil {
		return nil, false, err
	}
	isNodeShape := false
	isRDFSClass := false
	for _, ty := range types {
		if sameTerm(ty.ID, shNodeShape) {
			isNodeShape = true
		}
		if sameTerm(ty.ID, rdfsClassIRI) {
			isRDFSClass = true
		}
	}
	if !isNodeShape {
		return nil, false, nil
	}

	targets, err := lens.Pred(shTargetClass)(subj, rc)
	if err != nil {
		return nil, false, err
	}
	var targetClasses []quad.IRI
	for _, t := range targets {
		if iri, ok := t.ID.(quad.IRI); ok {
			targetClasses = append(targetClasses, iri)
		}
	}
	// Open Question 3: rdfs:Class + sh:NodeShape implicitly targets its
	// own IRI, in addition to any explicit sh:targetClass.
	if isRDFSClass {
		if iri, ok := subj.ID.(quad.IRI); ok {
			explicit := false
			for _, t := range targetClasses {
				explicit = explicit || t == iri
			}
			if !explicit {
				targetClasses = append(targetClasses, iri)
			}
		}
	}
	if len(targetClasses) == 0 {
		return nil, false, nil
	}

	description := ""
	if descs, err := lens.Pred(shDescription)(subj, rc); err != nil {
		return nil, false, err
	} else if len(descs) > 0 {
		description = datatype.Lexical(descs[0].ID)
	}

	propNodes, err := lens.Pred(shProperty)(subj, rc)
	if err != nil {
		return nil, false, err
	}
	fields := make([]ShapeField, 0, len(propNodes))
	for _, p := range propNodes {
		field, err := extractField(p, cache, rc)
		if err != nil {
			return nil, false, err
		}
		fields = append(fields, field)
	}

	shapes := make([]Shape, 0, len(targetClasses))
	for _, class := range targetClasses {
		shapes = append(shapes, Shape{Class: class, Description: description, Fields: fields})
	}
	return shapes, true, nil
}

func extractField(p lens.TermContainer, cache *Cache, rc *lens.RunContext) (ShapeField, error) {
	pathNodes, err := lens.Pred(shPath)(p, rc)
	if err != nil {
		return ShapeField{}, err
	}
	if len(pathNodes) != 1 {
		return ShapeField{}, lens.NewError(rc, lens.KindPathUncompilable, "sh:property requires exactly one sh:path")
	}
	compiledPath, err := path.Compile(pathNodes[0], rc)
	if err != nil {
		return ShapeField{}, err
	}

	names, err := lens.Pred(shName)(p, rc)
	if err != nil {
		return ShapeField{}, err
	}
	if len(names) != 1 {
		return ShapeField{}, lens.NewError(rc, lens.KindMissingRequired, "sh:property requires exactly one sh:name")
	}
	name := datatype.Lexical(names[0].ID)

	minCount := 0
	if mins, err := lens.Pred(shMinCount)(p, rc); err != nil {
		return ShapeField{}, err
	} else if len(mins) == 1 {
		fmt.Sscanf(datatype.Lexical(mins[0].ID), "%d", &minCount)
	}

	var maxCount *int
	if maxs, err := lens.Pred(shMaxCount)(p, rc); err != nil {
		return ShapeField{}, err
	} else if len(maxs) == 1 {
		var v int
		fmt.Sscanf(datatype.Lexical(maxs[0].ID), "%d", &v)
		maxCount = &v
	}

	classes, err := lens.Pred(shClass)(p, rc)
	if err != nil {
		return ShapeField{}, err
	}
	datatypes, err := lens.Pred(shDatatype)(p, rc)
	if err != nil {
		return ShapeField{}, err
	}

	var extract lens.Single[lens.TermContainer, any]
	switch {
	case len(classes) == 1 && len(datatypes) == 0:
		extract = classExtractor(cache, classes[0].ID)
	case len(datatypes) == 1 && len(classes) == 0:
		extract = datatypeExtractor(datatypes[0].ID)
	default:
		return ShapeField{}, lens.NewError(rc, lens.KindPathUncompilable,
			"sh:property requires exactly one of sh:class or sh:datatype")
	}

	return ShapeField{
		Name:     name,
		MinCount: minCount,
		MaxCount: maxCount,
		Path:     compiledPath,
		Extract:  extract,
	}, nil
}

func sameTerm(a, b quad.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}
