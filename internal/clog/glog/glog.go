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

// Package glog registers github.com/golang/glog as the clog backend.
// Importing this package for its side effect is enough:
//
//	import _ "github.com/rdf-lens/lens/internal/clog/glog"
package glog

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/rdf-lens/lens/internal/clog"
)

func init() {
	clog.SetLogger(logger{})
}

type logger struct{}

func (logger) Infof(format string, args ...interface{}) {
	glog.InfoDepth(3, fmt.Sprintf(format, args...))
}
func (logger) Warningf(format string, args ...interface{}) {
	glog.WarningDepth(3, fmt.Sprintf(format, args...))
}
