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
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/manifest"
)

var (
	errNoManifest       = errors.New("one of --file or --consul-key is required")
	errConflictingInput = errors.New("--file and --consul-key are mutually exclusive")
)

type rootOptions struct {
	file      string
	consulKey string
	format    string
	noColor   bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect and follow route manifests",
		Long: `routes loads a route manifest from a file or a Consul key, resolves
every group prefix and convention, and prints the resulting route table.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.file, "file", "f", "", "manifest file (yaml, toml or json)")
	pf.StringVar(&opts.consulKey, "consul-key", "", "Consul KV key holding the manifest")
	pf.StringVar(&opts.format, "format", "", "manifest format (default: inferred from the file extension, yaml for Consul)")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output; watch also prints endpoint build spans")

	cmd.AddCommand(
		newListCmd(opts),
		newValidateCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) loader(logger *slog.Logger) (manifest.Loader, error) {
	switch {
	case o.file != "" && o.consulKey != "":
		return nil, errConflictingInput
	case o.file != "":
		fopts := []manifest.FileOption{manifest.WithFileLogger(logger)}
		if o.format != "" {
			fopts = append(fopts, manifest.WithFormat(manifest.Format(o.format)))
		}
		return manifest.NewFile(o.file, fopts...)
	case o.consulKey != "":
		format := cmp.Or(manifest.Format(o.format), manifest.FormatYAML)
		return manifest.NewConsul(o.consulKey, format, nil, manifest.WithConsulLogger(logger))
	default:
		return nil, errNoManifest
	}
}

// inspectHandlers resolves every handler name to itself. The command only
// describes routes and never dispatches them.
func inspectHandlers() *manifest.Handlers {
	h := manifest.NewHandlers()
	h.SetFallback(func(name string) (endpoint.Handler, bool) {
		return name, true
	})
	return h
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "routes version: %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "git commit: %s\n", GitCommit)
		},
	}
}
