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
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rdf-lens/lens/shape"
)

// NewValidateShapesCmd compiles a shapes graph and reports which
// classes it registers, or the compile error. This is SHACL shape
// *compilation*, not SHACL *validation reporting* — the latter is an
// explicit Non-goal (spec.md §1).
func NewValidateShapesCmd() *cobra.Command {
	var shapesPath string

	cmd := &cobra.Command{
		Use:   "validate-shapes",
		Short: "Compile a SHACL shapes graph and list the classes it extracts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if shapesPath == "" {
				shapesPath = cfg.ShapesPath
			}
			if shapesPath == "" {
				return fmt.Errorf("--shapes is required (or input.shapes in config)")
			}

			shapeQuads, err := loadQuads(shapesPath)
			if err != nil {
				return fmt.Errorf("reading shapes: %w", err)
			}
			shapes, err := shape.ExtractShapes(shapeQuads, nil, nil)
			if err != nil {
				return fmt.Errorf("invalid shapes graph: %w", err)
			}

			fmt.Printf("%d shape(s) compiled\n", len(shapes.Shapes))
			classes := make([]string, 0, len(shapes.Shapes))
			for _, sh := range shapes.Shapes {
				classes = append(classes, sh.Class.String())
			}
			sort.Strings(classes)
			for _, c := range classes {
				fmt.Println("  " + c)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&shapesPath, "shapes", "", "SHACL shapes graph file")
	return cmd
}
