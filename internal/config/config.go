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

// Package config loads the cmd/rdflens configuration, modeled on the
// teacher's top-level config package: a plain Config struct plus a
// viper-backed loader that lets flags, a rdflens.yaml file, and
// RDFLENS_-prefixed environment variables all resolve the same keys.
// The core lens/path/shape packages take no configuration of their
// own (spec.md §6): every field here exists only to drive cmd/rdflens.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Strictness selects how a shape's list-valued fields react to a
// single element failing to extract (Open Question 2 in spec.md §9).
type Strictness string

const (
	// StrictThenAll aborts the whole field on the first element that
	// fails to extract. This is the engine's compiled-in behaviour
	// (shape.listField) and is what ExtractShapes always does.
	StrictThenAll Strictness = "thenAll"
	// StrictThenSome names the tolerant mode (drop elements that fail
	// to extract). Load reads the extract.strictness key into
	// Config.Strictness, but no command consumes it: extraction is
	// strict whichever value is set.
	StrictThenSome Strictness = "thenSome"
)

// EnvMode selects how rdfl:EnvVariable nodes are resolved (spec.md
// §4.F/§4.J).
type EnvMode string

const (
	// EnvModeInline resolves rdfl:EnvVariable nodes lens-style, as part
	// of normal field extraction (datatype.EnvLens).
	EnvModeInline EnvMode = "inline"
	// EnvModePreprocess runs shape.EnvReplace over the quad set before
	// extraction, substituting rdfl:EnvVariable nodes with literal
	// values up front.
	EnvModePreprocess EnvMode = "preprocess"
)

// Config is the resolved configuration for the cmd/rdflens binary.
type Config struct {
	QuadsPath  string
	ShapesPath string

	Strictness Strictness
	EnvMode    EnvMode

	MetricsAddr string
}

const (
	KeyQuadsPath  = "input.quads"
	KeyShapesPath = "input.shapes"

	KeyStrictness = "extract.strictness"
	KeyEnvMode    = "extract.env_mode"

	KeyMetricsAddr = "metrics.addr"
)

// Defaults are set before any file or environment value is read, the
// same precedence order viper.SetDefault documents.
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStrictness, string(StrictThenAll))
	v.SetDefault(KeyEnvMode, string(EnvModeInline))
	v.SetDefault(KeyMetricsAddr, "127.0.0.1:9400")
}

// Load resolves a Config from, in increasing precedence: built-in
// defaults, a rdflens.yaml found via viper's search path (current
// directory, $HOME, /etc/rdflens) with file, if non-empty (an explicit
// --config flag), merged over it, and RDFLENS_-prefixed environment
// variables, which override both config files. Any of these may be
// absent; Load fails if a found or named config file cannot be read or
// parsed.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RDFLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("rdflens")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	v.AddConfigPath("/etc/rdflens")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	return &Config{
		QuadsPath:   v.GetString(KeyQuadsPath),
		ShapesPath:  v.GetString(KeyShapesPath),
		Strictness:  Strictness(v.GetString(KeyStrictness)),
		EnvMode:     EnvMode(v.GetString(KeyEnvMode)),
		MetricsAddr: v.GetString(KeyMetricsAddr),
	}, nil
}
