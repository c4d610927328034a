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
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"rivaas.dev/endpoints/routing"
)

var routeHeaders = []string{"METHODS", "PATTERN", "NAME", "GROUP", "TAGS"}

// renderRoutes prints routes as an aligned table.
func renderRoutes(w io.Writer, routes []routing.Info, noColor bool) {
	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		methods := strings.Join(r.Methods, ",")
		if methods == "" {
			methods = "*"
		}
		rows = append(rows, []string{methods, r.Pattern, r.Name, r.GroupName, strings.Join(r.Tags, ",")})
	}

	widths := make([]int, len(routeHeaders))
	for i, h := range routeHeaders {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	header := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	method := color.New(color.FgGreen)
	if noColor {
		header.DisableColor()
		gray.DisableColor()
		method.DisableColor()
	}

	for i, h := range routeHeaders {
		header.Fprint(w, padRight(h, widths[i]))
		separate(w, i)
	}
	fmt.Fprintln(w)

	for i, width := range widths {
		gray.Fprint(w, strings.Repeat("─", width))
		separate(w, i)
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			if i == 0 {
				method.Fprint(w, padRight(cell, widths[i]))
			} else {
				fmt.Fprint(w, padRight(cell, widths[i]))
			}
			separate(w, i)
		}
		fmt.Fprintln(w)
	}

	gray.Fprintf(w, "%d routes\n", len(routes))
}

func separate(w io.Writer, col int) {
	if col < len(routeHeaders)-1 {
		fmt.Fprint(w, "  ")
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
