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

package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersYAML = `
prefix: /api
defaults:
  handler: fallback
  tags: [public]
  metadata:
    team: core
routes:
  - methods: GET
    path: /health
    handler: health
    order: 3
groups:
  - prefix: /users
    name: users
    tags: users
    routes:
      - methods: GET,POST
        path: "/{id:int}"
        handler: users.get
        name: get-user
        metadata:
          team: identity
          retries: 2
`

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(usersYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "/api", doc.Prefix)
	require.Len(t, doc.Routes, 1)
	health := doc.Routes[0]
	assert.Equal(t, []string{"GET"}, health.Methods)
	assert.Equal(t, "health", health.Handler)
	assert.Equal(t, 3, health.Order)
	assert.Equal(t, []string{"public"}, health.Tags, "defaults fill empty fields")
	assert.Equal(t, "core", health.Metadata["team"])

	require.Len(t, doc.Groups, 1)
	users := doc.Groups[0]
	assert.Equal(t, "/users", users.Prefix)
	assert.Equal(t, []string{"users"}, users.Tags)
	require.Len(t, users.Routes, 1)
	get := users.Routes[0]
	assert.Equal(t, []string{"GET", "POST"}, get.Methods)
	assert.Equal(t, "/{id:int}", get.Path)
	assert.Equal(t, "get-user", get.Name)
	assert.Equal(t, "identity", get.Metadata["team"], "route metadata wins over defaults")
	assert.Contains(t, get.Metadata, "retries")

	assert.Equal(t, 2, doc.RouteCount())
}

func TestParse_FormatsAgree(t *testing.T) {
	t.Parallel()

	yamlDoc := `
routes:
  - methods: [GET]
    path: "/items/{id}"
    handler: items
    order: 2
    metadata:
      owner: shop
`
	tomlDoc := `
[[routes]]
methods = ["GET"]
path = "/items/{id}"
handler = "items"
order = 2

[routes.metadata]
owner = "shop"
`
	jsonDoc := `{"routes":[{"methods":["GET"],"path":"/items/{id}","handler":"items","order":2,"metadata":{"owner":"shop"}}]}`

	fromYAML, err := Parse([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	fromTOML, err := Parse([]byte(tomlDoc), FormatTOML)
	require.NoError(t, err)
	fromJSON, err := Parse([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, fromJSON, fromTOML)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		op   string
	}{
		{name: "malformed", data: `{"routes": [`, op: "decode"},
		{name: "unknown field", data: `{"paths": []}`, op: "validate"},
		{name: "route without path", data: `{"routes": [{"handler": "h"}]}`, op: "validate"},
		{name: "order not integer", data: `{"routes": [{"path": "/", "order": "first"}]}`, op: "validate"},
		{name: "group without prefix", data: `{"groups": [{"name": "g"}]}`, op: "validate"},
		{name: "nested metadata", data: `{"routes": [{"path": "/", "metadata": {"a": {"b": 1}}}]}`, op: "validate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), FormatJSON)
			require.Error(t, err)
			var merr *Error
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.op, merr.Operation)
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{}`), Format("ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`{}`), FormatJSON)
	require.NoError(t, err)
	assert.Zero(t, doc.RouteCount())
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "routes.yaml", want: FormatYAML},
		{path: "routes.YML", want: FormatYAML},
		{path: "/etc/app/routes.toml", want: FormatTOML},
		{path: "routes.json", want: FormatJSON},
		{path: "routes.ini", wantErr: true},
		{path: "routes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
