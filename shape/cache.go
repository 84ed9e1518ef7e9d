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

import "github.com/rdf-lens/lens/lens"

// Cache is the late-binding class-IRI-to-lens table (spec §4.G/§9). It
// is built empty, populated while shapes compile, and never mutated
// again once ExtractShapes returns — compiled field extractors close
// over the *Cache pointer and resolve a class by name at execute time,
// which is what lets mutually recursive shapes (A references B, B
// references A) compile in any order.
type Cache struct {
	entries map[string]lens.Single[lens.TermContainer, any]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]lens.Single[lens.TermContainer, any]{}}
}

// Get looks up the lens registered for class, if any.
func (c *Cache) Get(class string) (lens.Single[lens.TermContainer, any], bool) {
	l, ok := c.entries[class]
	return l, ok
}

// Classes returns every registered class IRI. Used to build the
// TypedExtract dispatcher's per-class Cached wrappers once, up front.
func (c *Cache) Classes() []string {
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	return out
}

// Register adds l under class. If a lens is already registered there
// (a second NodeShape targeting the same class), the two are combined
// with a tolerant Or: the first-registered shape is tried first, the
// new one only if it fails (spec §4.G step 5).
func (c *Cache) Register(class string, l lens.Single[lens.TermContainer, any]) {
	if existing, ok := c.entries[class]; ok {
		c.entries[class] = lens.Or(existing, l)
		return
	}
	c.entries[class] = l
}
