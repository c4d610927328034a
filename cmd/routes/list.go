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
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rivaas.dev/endpoints/manifest"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the routes of a manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger(cmd.ErrOrStderr())
			loader, err := opts.loader(logger)
			if err != nil {
				return err
			}
			src, err := manifest.NewSource(cmd.Context(), loader, inspectHandlers(), manifest.WithLogger(logger))
			if err != nil {
				return err
			}
			defer src.Close()

			routes, err := src.Routes()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(routes)
			}
			renderRoutes(cmd.OutOrStdout(), routes, opts.noColor)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print routes as JSON")
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that a manifest parses and every route pattern is valid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := opts.loader(opts.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			doc, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			tbl, err := manifest.Build(doc, inspectHandlers())
			if err != nil {
				return err
			}
			defer tbl.Close()

			ok := color.New(color.FgGreen)
			if opts.noColor {
				ok.DisableColor()
			}
			ok.Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "manifest is valid: %d routes\n", doc.RouteCount())
			return nil
		},
	}
}
