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

// Package command implements the rdflens subcommands, one file per
// command, patterned on the teacher's cmd/cayley/command package.
package command

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cayleygraph/quad"
	_ "github.com/cayleygraph/quad/nquads"
	"github.com/spf13/cobra"

	"github.com/rdf-lens/lens/internal/config"
)

var cfgFile string

// NewRootCmd builds the rdflens command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rdflens",
		Short:         "Compile SHACL shapes into lenses and extract records from RDF quads.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an explicit rdflens.yaml (overrides the search path)")
	root.AddCommand(
		NewExtractCmd(),
		NewValidateShapesCmd(),
		NewReplCmd(),
		NewServeMetricsCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// loadQuads reads every quad from path, auto-detecting the format by
// file extension and falling back to n-quads, the same fallback the
// teacher's cmd/cayleyimport uses for an unrecognised extension.
func loadQuads(path string) ([]quad.Quad, error) {
	var r io.ReadCloser
	if path == "-" || path == "" {
		r = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	format := quad.FormatByExt(filepath.Ext(path))
	if format == nil {
		format = quad.FormatByName("nquads")
	}
	qr := format.Reader(r)
	defer qr.Close()
	return quad.ReadAll(qr)
}
