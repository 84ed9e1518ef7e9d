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

// Package vocab contains the IRI constants recognised by the shape
// compiler and path interpreter: SHACL, XSD and the rdf-lens ontology
// itself. Constants are full IRIs, ready to compare directly against
// already-parsed quad values (spec §1: RDF parsing, and therefore
// prefix expansion, happens upstream of this engine). Each namespace
// also registers its prefix with quad/voc, the same way the teacher's
// voc/rdf and voc/rdfs packages do, purely so debug output can print
// shortened IRIs.
package vocab

import "github.com/cayleygraph/quad/voc"

func init() {
	voc.RegisterPrefix(SHPrefix, SHNS)
	voc.RegisterPrefix(XSDPrefix, XSDNS)
	voc.RegisterPrefix(RDFLPrefix, RDFLNS)
}

// SHACL vocabulary (https://www.w3.org/ns/shacl#).
const (
	SHNS     = `http://www.w3.org/ns/shacl#`
	SHPrefix = `sh:`

	NodeShape       = SHNS + `NodeShape`
	TargetClass     = SHNS + `targetClass`
	Property        = SHNS + `property`
	Path            = SHNS + `path`
	Name            = SHNS + `name`
	Description     = SHNS + `description`
	Class           = SHNS + `class`
	Datatype        = SHNS + `datatype`
	MinCount        = SHNS + `minCount`
	MaxCount        = SHNS + `maxCount`
	AlternativePath = SHNS + `alternativePath`
	InversePath     = SHNS + `inversePath`
	ZeroOrMorePath  = SHNS + `zeroOrMorePath`
	OneOrMorePath   = SHNS + `oneOrMorePath`
	ZeroOrOnePath   = SHNS + `zeroOrOnePath`
)

// XSD vocabulary, restricted to the datatypes the coercer recognises.
const (
	XSDNS     = `http://www.w3.org/2001/XMLSchema#`
	XSDPrefix = `xsd:`

	Integer  = XSDNS + `integer`
	Float    = XSDNS + `float`
	Double   = XSDNS + `double`
	Decimal  = XSDNS + `decimal`
	String   = XSDNS + `string`
	DateTime = XSDNS + `dateTime`
	Boolean  = XSDNS + `boolean`
	AnyURI   = XSDNS + `anyURI`
	// IRI is a non-standard extension some shape graphs use in place
	// of xsd:anyURI; the coercer treats it identically.
	IRI = XSDNS + `iri`
)

// RDF-Lens ontology (https://w3id.org/rdf-lens/ontology#).
const (
	RDFLNS     = `https://w3id.org/rdf-lens/ontology#`
	RDFLPrefix = `rdfl:`

	CBD          = RDFLNS + `CBD`
	PathLens     = RDFLNS + `PathLens`
	Context      = RDFLNS + `Context`
	TypedExtract = RDFLNS + `TypedExtract`
	EnvVariable  = RDFLNS + `EnvVariable`
	EnvKey       = RDFLNS + `envKey`
	EnvDefault   = RDFLNS + `envDefault`
	VarDatatype  = RDFLNS + `datatype`
)
