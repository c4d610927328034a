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

package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type labeler interface{ Label() string }

type label string

func (l label) Label() string { return string(l) }

func TestMetadata_LastOfKindWins(t *testing.T) {
	t.Parallel()

	md := NewMetadata(Name("outer"), Summary("s"), Name("inner"))

	got, ok := Last[Name](md)
	assert.True(t, ok)
	assert.Equal(t, Name("inner"), got)
	assert.Equal(t, []Name{"outer", "inner"}, All[Name](md))
}

func TestMetadata_MissingKind(t *testing.T) {
	t.Parallel()

	md := NewMetadata(Name("x"))

	got, ok := Last[Description](md)
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Nil(t, All[Description](md))
}

func TestMetadata_InterfaceKinds(t *testing.T) {
	t.Parallel()

	md := NewMetadata(label("a"), Name("n"), label("b"))

	all := All[labeler](md)
	assert.Len(t, all, 2)
	last, ok := Last[labeler](md)
	assert.True(t, ok)
	assert.Equal(t, "b", last.Label())
}

func TestMetadata_ItemsIsCopy(t *testing.T) {
	t.Parallel()

	md := NewMetadata(1, 2)
	items := md.Items()
	items[0] = 99

	assert.Equal(t, []any{1, 2}, md.Items())
	assert.Zero(t, NewMetadata().Len())
}
