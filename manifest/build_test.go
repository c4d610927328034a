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

	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
)

func testHandlers() *Handlers {
	return NewHandlers().
		MustRegister("health", "health-handler").
		MustRegister("users.get", "users-get-handler").
		MustRegister("fallback", "fallback-handler")
}

func TestBuild(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(usersYAML), FormatYAML)
	require.NoError(t, err)

	tbl, err := Build(doc, testHandlers())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })

	routes, err := tbl.Routes()
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, "/api/health", routes[0].Pattern)
	assert.Equal(t, []string{"GET"}, routes[0].Methods)
	assert.Equal(t, 3, routes[0].Order)
	assert.Equal(t, []string{"public"}, routes[0].Tags)

	get := routes[1]
	assert.Equal(t, "/api/users/{id:int}", get.Pattern)
	assert.Equal(t, "get-user", get.Name)
	assert.Equal(t, "users", get.GroupName)
	assert.Equal(t, []string{"GET", "POST"}, get.Methods)
	assert.Equal(t, []string{"users", "public"}, get.Tags)

	eps, err := tbl.Endpoints()
	require.NoError(t, err)
	var users *endpoint.RouteEndpoint
	for _, ep := range eps {
		if re := ep.(*endpoint.RouteEndpoint); re.Pattern().RawText() == "/api/users/{id:int}" {
			users = re
		}
	}
	require.NotNil(t, users)
	assert.Equal(t, "users-get-handler", users.Handler())
	assert.Equal(t, []Attribute{
		{Key: "retries", Value: "2"},
		{Key: "team", Value: "identity"},
	}, endpoint.All[Attribute](users.Metadata()))
}

func TestBuild_UnknownHandler(t *testing.T) {
	t.Parallel()

	doc := &Document{Groups: []Group{{
		Prefix: "/g",
		Routes: []Route{{Path: "/x", Handler: "missing"}},
	}}}

	_, err := Build(doc, NewHandlers())
	require.ErrorIs(t, err, ErrUnknownHandler)

	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "groups[0].routes[0]", merr.Field)
	assert.Equal(t, "build", merr.Operation)

	var herr *UnknownHandlerError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, "missing", herr.Name)
}

func TestBuild_Fallback(t *testing.T) {
	t.Parallel()

	h := NewHandlers()
	h.SetFallback(func(name string) (endpoint.Handler, bool) {
		return "dynamic:" + name, true
	})

	doc := &Document{Routes: []Route{{Path: "/x", Handler: "anything"}}}
	tbl, err := Build(doc, h)
	require.NoError(t, err)

	eps, err := tbl.Endpoints()
	require.NoError(t, err)
	require.Len(t, eps, 1)
	assert.Equal(t, "dynamic:anything", eps[0].(*endpoint.RouteEndpoint).Handler())
}

func TestBuild_InvalidPattern(t *testing.T) {
	t.Parallel()

	doc := &Document{Routes: []Route{{Path: "/{id", Handler: "health"}}}
	_, err := Build(doc, testHandlers())
	require.ErrorIs(t, err, pattern.ErrInvalidPattern)

	doc = &Document{Prefix: "/{*rest}/x"}
	_, err = Build(doc, testHandlers())
	require.ErrorIs(t, err, pattern.ErrInvalidPattern)
}

func TestBuild_PrefixConflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   *Document
		field string
	}{
		{
			name: "route under group",
			doc: &Document{Groups: []Group{{
				Prefix: "/{id}",
				Routes: []Route{{Path: "/{id}", Handler: "health"}},
			}}},
			field: "groups[0].routes[0]",
		},
		{
			name: "route under document prefix",
			doc: &Document{
				Prefix: "/tenants/{tenant}",
				Routes: []Route{{Path: "/x/{tenant}", Handler: "health"}},
			},
			field: "routes[0]",
		},
		{
			name: "nested group",
			doc: &Document{Groups: []Group{{
				Prefix: "/{id}",
				Groups: []Group{{Prefix: "/sub/{id}"}},
			}}},
			field: "groups[0].groups[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl, err := Build(tt.doc, testHandlers())
			require.ErrorIs(t, err, pattern.ErrRoutePatternConflict)
			assert.Nil(t, tbl)

			var merr *Error
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.field, merr.Field)
			assert.Equal(t, "build", merr.Operation)
		})
	}
}

func TestBuild_NilHandlers(t *testing.T) {
	t.Parallel()

	_, err := Build(&Document{}, nil)
	assert.ErrorIs(t, err, ErrNilHandlers)
}

func TestAttribute_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "team=core", Attribute{Key: "team", Value: "core"}.String())
}
