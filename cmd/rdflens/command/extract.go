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

package command

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rdf-lens/lens/internal/clog"
	"github.com/rdf-lens/lens/internal/metrics"
	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/shape"
	"github.com/rdf-lens/lens/vocab"
)

// NewExtractCmd compiles a shapes graph and runs rdfl:TypedExtract
// over every distinct subject in a quad file that has an rdf:type,
// writing one JSON object per line to stdout.
func NewExtractCmd() *cobra.Command {
	var quadsPath, shapesPath string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract typed records from a quad file using a SHACL shapes graph.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if quadsPath == "" {
				quadsPath = cfg.QuadsPath
			}
			if shapesPath == "" {
				shapesPath = cfg.ShapesPath
			}
			if quadsPath == "" || shapesPath == "" {
				return fmt.Errorf("both --quads and --shapes are required (or input.quads/input.shapes in config)")
			}

			shapeQuads, err := loadQuads(shapesPath)
			if err != nil {
				return fmt.Errorf("reading shapes: %w", err)
			}
			shapes, err := shape.ExtractShapes(shapeQuads, nil, nil)
			if err != nil {
				return fmt.Errorf("compiling shapes: %w", err)
			}

			dataQuads, err := loadQuads(quadsPath)
			if err != nil {
				return fmt.Errorf("reading quads: %w", err)
			}
			if cfg.EnvMode == "preprocess" {
				// Resolved via shape.EnvReplace, not through the
				// in-lens datatype.EnvLens path (spec §4.J).
				dataQuads, err = shape.EnvReplace(cliEnv{}, dataQuads)
				if err != nil {
					return fmt.Errorf("resolving env variables: %w", err)
				}
			}

			dispatcher, ok := shapes.Cache.Get(vocab.TypedExtract)
			if !ok {
				return fmt.Errorf("internal error: rdfl:TypedExtract was not registered")
			}

			subjects, err := lens.Unique()(lens.Subjects(dataQuads), lens.NewRunContext())
			if err != nil {
				return err
			}

			var recorder *metrics.Recorder
			if cfg.MetricsAddr != "" {
				recorder = metrics.NewRecorder(prometheus.DefaultRegisterer)
			}

			enc := json.NewEncoder(os.Stdout)
			typeIRI := quad.IRI(rdf.Type).Full()
			failures := 0
			for _, subj := range subjects {
				c := lens.NewTerm(subj.ID, dataQuads)
				types, _ := lens.Pred(typeIRI)(c, lens.NewRunContext())
				if len(types) == 0 {
					continue
				}
				rc := lens.NewRunContext(lens.WithMetrics(recorder))
				out, err := dispatcher(c, rc)
				if err != nil {
					failures++
					clog.Warningf("extract %s: %v", subj.ID, err)
					continue
				}
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			if failures > 0 {
				clog.Warningf("%d subject(s) failed to extract", failures)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&quadsPath, "quads", "", "quad file to extract from (n-quads, or any registered format by extension)")
	cmd.Flags().StringVar(&shapesPath, "shapes", "", "SHACL shapes graph file")
	return cmd
}

// cliEnv resolves rdfl:EnvVariable nodes against the CLI process's own
// environment.
type cliEnv struct{}

func (cliEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }
