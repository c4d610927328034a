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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/endpoints/endpoint"
)

func TestHandlers_Register(t *testing.T) {
	t.Parallel()

	h := NewHandlers()
	require.NoError(t, h.Register("b", 2))
	require.NoError(t, h.Register("a", 1))

	assert.ErrorIs(t, h.Register("a", 3), ErrDuplicateHandler)
	assert.ErrorIs(t, h.Register("", 3), ErrEmptyHandlerName)
	assert.Panics(t, func() { h.MustRegister("a", 4) })

	assert.Equal(t, []string{"a", "b"}, h.Names())

	got, err := h.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestHandlers_Lookup(t *testing.T) {
	t.Parallel()

	h := NewHandlers().MustRegister("known", "k")
	h.SetFallback(func(name string) (endpoint.Handler, bool) {
		return nil, name == "nil-ok"
	})

	got, err := h.Lookup("known")
	require.NoError(t, err)
	assert.Equal(t, "k", got)

	got, err = h.Lookup("nil-ok")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = h.Lookup("missing")
	assert.ErrorIs(t, err, ErrUnknownHandler)
	assert.EqualError(t, err, `handler "missing" is not registered`)
}
