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

package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_RawText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  string
		right string
		want  string
	}{
		{name: "simple", left: "/api", right: "/users", want: "/api/users"},
		{name: "trailing slash on left", left: "/api/", right: "/users", want: "/api/users"},
		{name: "no leading slash on right", left: "/api", right: "users", want: "/api/users"},
		{name: "root right", left: "/api", right: "/", want: "/api"},
		{name: "root left", left: "/", right: "/users", want: "/users"},
		{name: "empty text left", left: "", right: "/users", want: "/users"},
		{name: "parameters", left: "/org/{org}", right: "/repo/{repo}", want: "/org/{org}/repo/{repo}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Combine(MustParse(tt.left), MustParse(tt.right))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.RawText())
		})
	}
}

func TestCombine_EmptyIsIdentity(t *testing.T) {
	t.Parallel()

	foo := MustParse("/foo/{id}")

	left, err := Combine(Empty(), foo)
	require.NoError(t, err)
	assert.Equal(t, "/foo/{id}", left.RawText())
	assert.Equal(t, foo.Segments(), left.Segments())
	assert.Equal(t, foo.ParameterNames(), left.ParameterNames())

	right, err := Combine(foo, Empty())
	require.NoError(t, err)
	assert.Equal(t, "/foo/{id}", right.RawText())
	assert.Equal(t, foo.Segments(), right.Segments())

	both, err := Combine(Empty(), Empty())
	require.NoError(t, err)
	assert.False(t, both.HasRawText())
	assert.True(t, both.IsEmpty())

	nils, err := Combine(nil, nil)
	require.NoError(t, err)
	assert.True(t, nils.IsEmpty())
}

func TestCombine_Associative(t *testing.T) {
	t.Parallel()

	a := MustParse("/a/{x}")
	b := MustParse("/b/{y:int}")
	c := MustParse("/c/{*rest}")

	ab := MustCombine(a, b)
	leftFirst := MustCombine(ab, c)

	bc := MustCombine(b, c)
	rightFirst := MustCombine(a, bc)

	assert.Equal(t, leftFirst.RawText(), rightFirst.RawText())
	assert.Equal(t, leftFirst.Segments(), rightFirst.Segments())
	assert.Equal(t, leftFirst.ParameterNames(), rightFirst.ParameterNames())
	assert.Equal(t, "/a/{x}/b/{y:int}/c/{*rest}", leftFirst.RawText())
	assert.InDelta(t, leftFirst.InboundPrecedence(), rightFirst.InboundPrecedence(), 1e-12)
}

func TestCombine_Conflict(t *testing.T) {
	t.Parallel()

	_, err := Combine(MustParse("/{id}"), MustParse("/{id}"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrRoutePatternConflict)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "/{id}/{id}", conflict.RawText)
	assert.Equal(t, "id", conflict.Parameter)
	assert.Panics(t, func() { MustCombine(MustParse("/{id}"), MustParse("/x/{id}")) })
}

func TestCombine_CopiesOnlySurvivingDictionaries(t *testing.T) {
	t.Parallel()

	left := MustParse("/tenant/{tenant}",
		WithDefaults(map[string]any{"tenant": "acme", "area": "admin"}),
		WithRequiredValues(map[string]any{"area": "admin"}),
	)
	right := MustParse("/items/{id}",
		WithPolicies(map[string][]Policy{
			"id":    {MustParsePolicy("int")},
			"other": {MustParsePolicy("alpha")},
		}),
	)

	got := MustCombine(left, right)

	assert.Equal(t, map[string]any{"tenant": "acme"}, got.Defaults())
	assert.Empty(t, got.RequiredValues())
	require.Len(t, got.Policies("id"), 1)
	assert.Empty(t, got.Policies("other"))

	tenant, ok := got.Parameter("tenant")
	require.True(t, ok)
	assert.True(t, tenant.HasDefault)
	assert.Equal(t, "acme", tenant.Default)
}

func TestCombine_DoesNotModifyOperands(t *testing.T) {
	t.Parallel()

	left := MustParse("/a/{x}", WithDefaults(map[string]any{"x": "1"}))
	right := MustParse("/b/{y}")

	_ = MustCombine(left, right)

	assert.Equal(t, "/a/{x}", left.RawText())
	assert.Equal(t, []string{"x"}, left.ParameterNames())
	assert.Equal(t, []string{"y"}, right.ParameterNames())
	assert.Equal(t, map[string]any{"x": "1"}, left.Defaults())
	assert.Len(t, left.Segments(), 2)
}
