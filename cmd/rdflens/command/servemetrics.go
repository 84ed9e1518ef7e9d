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
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rdf-lens/lens/internal/clog"
)

// NewServeMetricsCmd serves the process-wide Prometheus registry on
// /metrics, adapted from the teacher's NewHttpCmd (cmd/cayley/command/http.go):
// same host:port flag shape, same http.ListenAndServe call, just one
// handler instead of the full query API.
func NewServeMetricsCmd() *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve this process's default Prometheus registry on /metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			http.Handle("/metrics", promhttp.Handler())
			clog.Infof("serving metrics on %s/metrics", host)
			return http.ListenAndServe(host, nil)
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1:9400", "host:port to serve /metrics on")
	return cmd
}
