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

// Command rdflens is the CLI wrapper around the rdf-lens extraction
// engine (spec.md §6: "no CLI surface in the core"). The core
// lens/path/shape packages never import this package or its command
// subpackage.
package main

import (
	"os"

	_ "github.com/rdf-lens/lens/internal/clog/glog"

	"github.com/rdf-lens/lens/cmd/rdflens/command"
)

func main() {
	if err := command.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
