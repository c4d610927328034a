// Copyright 2025 The Rivaas Authors
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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/manifest"
	"rivaas.dev/endpoints/routing"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the route table every time the manifest changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func runWatch(ctx context.Context, out, errOut io.Writer, opts *rootOptions, metricsAddr string) error {
	logger := opts.logger(errOut)
	tableOpts := []routing.Option{routing.WithLogger(logger)}

	if metricsAddr != "" {
		m, err := newMetricsServer(metricsAddr)
		if err != nil {
			return err
		}
		m.start(logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", "error", err)
			}
		}()
		tableOpts = append(tableOpts, routing.WithMeterProvider(m.provider))
	}

	if opts.verbose {
		tp, err := newSpanPrinter(errOut)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("tracer provider shutdown failed", "error", err)
			}
		}()
		tableOpts = append(tableOpts, routing.WithTracerProvider(tp))
	}

	loader, err := opts.loader(logger)
	if err != nil {
		return err
	}
	src, err := manifest.NewSource(ctx, loader, inspectHandlers(),
		manifest.WithLogger(logger),
		manifest.WithTableOptions(tableOpts...),
	)
	if err != nil {
		return err
	}
	defer src.Close()

	show := func() {
		routes, err := src.Routes()
		if err != nil {
			logger.Warn("failed to list routes", "error", err)
			return
		}
		fmt.Fprintf(out, "generation %d\n", src.Generation())
		renderRoutes(out, routes, opts.noColor)
	}
	show()

	stopPrinting := changes.Watch(src.ChangeToken, show)
	defer stopPrinting()

	return src.Watch(ctx)
}
