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

// Cached wraps a Record-producing lens so repeated calls for the same
// focus.ID during a single RunContext return the identical Record
// object, closing recursive shape references (Point -> Point, ...).
//
// Protocol: on entry for an id, scan the run's memo slot for that id
// for an entry owned by this particular Cached wrapper (compared by
// the wrapper's own identity, not by id alone, since several distinct
// Cached lenses may be consulted for the same id during one run). If
// found, return its Record immediately -- even if the inner lens has
// not finished populating it, which is exactly what breaks a cycle.
// Otherwise reserve an empty Record, run the inner lens, and copy its
// output into the reserved Record in place so every holder of the
// reservation observes the populated fields.
func Cached(inner Single[TermContainer, Record]) Single[TermContainer, Record] {
	owner := new(int) // unique per call to Cached, used only for identity
	return func(c TermContainer, rc *RunContext) (Record, error) {
		key := c.ID.String()
		for _, e := range rc.memo[key] {
			if e.owner == owner {
				return e.result, nil
			}
		}
		rec := Record{}
		rc.memo[key] = append(rc.memo[key], cacheEntry{owner: owner, result: rec})
		out, err := inner(c, rc)
		if err != nil {
			return nil, err
		}
		for k, v := range out {
			rec[k] = v
		}
		return rec, nil
	}
}
