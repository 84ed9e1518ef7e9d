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
	"github.com/cayleygraph/quad"

	"github.com/rdf-lens/lens/lens"
)

// ConciseBoundedDescription implements the rdfl:CBD pseudo-class (spec
// §4.G step 4): a breadth-first walk from the focus collecting every
// quad reachable through blank-node objects, stopping once no new
// blank node is discovered.
func ConciseBoundedDescription(c lens.TermContainer, rc *lens.RunContext) (any, error) {
	var result []quad.Quad
	visited := map[string]bool{}
	frontier := []quad.Value{c.ID}

	for len(frontier) > 0 {
		var next []quad.Value
		for _, focus := range frontier {
			key := focus.String()
			if visited[key] {
				continue
			}
			visited[key] = true
			for _, q := range c.Quads {
				if q.Subject.String() != key {
					continue
				}
				result = append(result, q)
				if bnode, ok := q.Object.(quad.BNode); ok {
					next = append(next, bnode)
				}
			}
		}
		frontier = next
	}
	return result, nil
}
