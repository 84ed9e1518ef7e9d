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
	"io"
	"os"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/rdf-lens/lens/lens"
	"github.com/rdf-lens/lens/shape"
	"github.com/rdf-lens/lens/vocab"
)

const replHistory = ".rdflens_history"

// NewReplCmd drops into an interactive loop, adapted from the
// teacher's internal/repl/repl.go liner-based prompt: an operator
// types a subject IRI, the REPL dispatches it through
// rdfl:TypedExtract against the loaded quads and prints the resulting
// record as indented JSON.
func NewReplCmd() *cobra.Command {
	var quadsPath, shapesPath string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively extract records by subject IRI.",
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
			dispatcher, ok := shapes.Cache.Get(vocab.TypedExtract)
			if !ok {
				return fmt.Errorf("internal error: rdfl:TypedExtract was not registered")
			}

			return runRepl(dataQuads, dispatcher)
		},
	}
	cmd.Flags().StringVar(&quadsPath, "quads", "", "quad file to extract from")
	cmd.Flags().StringVar(&shapesPath, "shapes", "", "SHACL shapes graph file")
	return cmd
}

func runRepl(dataQuads []quad.Quad, dispatcher lens.Single[lens.TermContainer, any]) error {
	term := liner.NewLiner()
	defer term.Close()

	if f, err := os.Open(replHistory); err == nil {
		term.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(replHistory); err == nil {
			term.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(`rdflens repl — type a subject IRI to extract its record, "help" for commands, "exit" to quit.`)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for {
		line, err := term.Prompt("rdflens> ")
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		switch line {
		case "help":
			fmt.Println("  <iri>   extract and print the record for subject <iri>")
			fmt.Println("  exit    quit the repl")
			continue
		case "exit":
			return nil
		}

		c := lens.NewTerm(quad.IRI(line), dataQuads)
		out, err := dispatcher(c, lens.NewRunContext())
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if err := enc.Encode(out); err != nil {
			fmt.Println("error:", err)
		}
	}
}
