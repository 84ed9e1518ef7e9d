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

package datatype

import (
	"os"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"

	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/vocab"
)

// Env abstracts environment lookup so tests don't need real process
// environment variables; Lookup matches os.LookupEnv's signature.
type Env interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads from the real process environment via os.LookupEnv.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// EnvLens resolves an rdfl:EnvVariable node: it requires
// rdf:type rdfl:EnvVariable, reads rdfl:envKey, and resolves
// env[key] ?? rdfl:envDefault, failing if neither is present. The
// resolved value is coerced using dt if given, else the node's own
// rdfl:datatype, else treated as xsd:string.
func EnvLens(env Env, dt quad.Value) lens.Single[lens.TermContainer, any] {
	typeIRI := quad.IRI(rdf.Type).Full()
	envVarIRI := quad.IRI(vocab.EnvVariable)
	envKeyIRI := quad.IRI(vocab.EnvKey)
	envDefaultIRI := quad.IRI(vocab.EnvDefault)
	nodeDatatypeIRI := quad.IRI(vocab.VarDatatype)

	return func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
		types, err := lens.Pred(typeIRI)(c, rc)
		if err != nil {
			return nil, err
		}
		isEnvVar := false
		for _, ty := range types {
			if ty.ID.String() == envVarIRI.String() {
				isEnvVar = true
				break
			}
		}
		if !isEnvVar {
			return nil, lens.NewError(rc, lens.KindWrongType, "expected rdf:type rdfl:EnvVariable")
		}

		keys, err := lens.Pred(envKeyIRI)(c, rc)
		if err != nil || len(keys) != 1 {
			return nil, lens.NewError(rc, lens.KindEnvUnresolved, "rdfl:envKey is required on an EnvVariable node")
		}
		key := lexicalForm(keys[0].ID)

		resolvedDT := dt
		if resolvedDT == nil {
			if nodeDTs, err := lens.Pred(nodeDatatypeIRI)(c, rc); err == nil && len(nodeDTs) == 1 {
				resolvedDT = nodeDTs[0].ID
			}
		}
		if resolvedDT == nil {
			resolvedDT = quad.IRI(vocab.String)
		}

		if v, ok := env.Lookup(key); ok {
			return Coerce(resolvedDT, quad.String(v))
		}

		defaults, err := lens.Pred(envDefaultIRI)(c, rc)
		if err == nil && len(defaults) == 1 {
			return Coerce(resolvedDT, defaults[0].ID)
		}
		return nil, lens.NewError(rc, lens.KindEnvUnresolved, "ENV and default are not set")
	}
}
