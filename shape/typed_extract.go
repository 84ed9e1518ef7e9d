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
	"time"

	"github.com/rdf-lens/lens/lens"
)

// buildTypedExtract implements the rdfl:TypedExtract dispatcher (spec
// §4.H). It is built once, at the end of ExtractShapes, from the
// cache's state at that point — every class the cache already knows
// about gets exactly one Cached wrapper here, built up front so the
// dispatcher never mutates shared state at execute time and stays
// safe to invoke concurrently against distinct RunContexts (spec §5).
func buildTypedExtract(cache *Cache, subClasses SubClassMap, apply map[string]Apply) lens.Single[lens.TermContainer, any] {
	cachedByClass := make(map[string]lens.Single[lens.TermContainer, any], len(cache.Classes()))
	for _, class := range cache.Classes() {
		l, _ := cache.Get(class)
		// Cached only knows how to wrap a Record-producing lens; the
		// pseudo-classes (rdfl:PathLens, rdfl:CBD, rdfl:Context) return
		// other shapes of value and are never reached by a real
		// rdf:type walk, so they pass through as an empty Record here.
		asRecord := func(c lens.TermContainer, rc *lens.RunContext) (lens.Record, error) {
			v, err := l(c, rc)
			if err != nil {
				return nil, err
			}
			rec, ok := v.(lens.Record)
			if !ok {
				return lens.Record{}, nil
			}
			return rec, nil
		}
		cachedRecord := lens.Cached(asRecord)
		cachedByClass[class] = func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
			return cachedRecord(c, rc)
		}
	}

	return func(c lens.TermContainer, rc *lens.RunContext) (any, error) {
		start := time.Now()
		defer func() { rc.Metrics().ObserveExtraction(time.Since(start)) }()

		types, err := lens.Pred(rdfTypeIRI)(c, rc)
		if err != nil {
			return nil, err
		}
		if len(types) == 0 {
			return nil, lens.NewError(rc, lens.KindNoType, "Expected a type, found none")
		}
		ty := types[0].ID.String()

		visited := map[string]bool{}
		queue := []string{ty}
		var matched []lens.Single[lens.TermContainer, any]
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			if l, ok := cachedByClass[cur]; ok {
				matched = append(matched, l)
			}
			queue = append(queue, subClasses[cur]...)
		}
		if len(matched) == 0 {
			return nil, lens.NewError(rc, lens.KindUnknownClass,
				fmt.Sprintf("no shape registered for type %s or its ancestors", ty))
		}

		merged := lens.Record{}
		// matched is ordered child-first, parent-last (BFS from ty
		// outward); iterating in reverse lets a child's fields
		// override its parent's on key conflict (spec §4.H step 5).
		for i := len(matched) - 1; i >= 0; i-- {
			v, err := matched[i](c, rc)
			if err != nil {
				return nil, err
			}
			rec, ok := v.(lens.Record)
			if !ok {
				continue
			}
			for k, val := range rec {
				merged[k] = val
			}
		}

		if post, ok := apply[ty]; ok {
			return post(merged)
		}
		return merged, nil
	}
}
