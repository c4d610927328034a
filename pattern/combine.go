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
	"slices"
	"strings"
)

// Combine returns a new pattern equivalent to right nested under left.
//
// The raw text is left (trailing slashes trimmed) + "/" + right (leading
// slashes trimmed). When either side has no text, or is the root pattern,
// the other side's text is used verbatim, so combining with [Empty] never
// introduces a separator. Segments are concatenated without re-parsing.
//
// Parameters are taken from left, then right. The first name present on
// both sides yields a *ConflictError carrying the combined raw text.
// Defaults, required values and policies are copied only for parameters that
// end up in the result.
//
// A nil operand is treated as Empty. Neither operand is modified.
func Combine(left, right *Pattern) (*Pattern, error) {
	if left == nil {
		left = empty
	}
	if right == nil {
		right = empty
	}

	raw, hasRaw := combineRawText(left, right)
	out := &Pattern{raw: raw, hasRaw: hasRaw}

	n := len(left.parameters) + len(right.parameters)
	seen := make(map[string]struct{}, n)
	out.parameters = make([]Parameter, 0, n)

	for _, side := range [2]*Pattern{left, right} {
		for _, prm := range side.parameters {
			if _, dup := seen[prm.Name]; dup {
				return nil, &ConflictError{RawText: raw, Parameter: prm.Name}
			}
			seen[prm.Name] = struct{}{}
			prm.Policies = slices.Clone(prm.Policies)
			out.parameters = append(out.parameters, prm)

			if v, ok := side.defaults[prm.Name]; ok {
				if out.defaults == nil {
					out.defaults = make(map[string]any)
				}
				out.defaults[prm.Name] = v
			}
			if v, ok := side.required[prm.Name]; ok {
				if out.required == nil {
					out.required = make(map[string]any)
				}
				out.required[prm.Name] = v
			}
			if v, ok := side.policies[prm.Name]; ok {
				if out.policies == nil {
					out.policies = make(map[string][]Policy)
				}
				out.policies[prm.Name] = slices.Clone(v)
			}
		}
	}

	out.segments = make([]Segment, 0, len(left.segments)+len(right.segments))
	out.segments = append(out.segments, left.segments...)
	out.segments = append(out.segments, right.segments...)

	out.finish()
	return out, nil
}

// MustCombine is like Combine but panics on conflict.
func MustCombine(left, right *Pattern) *Pattern {
	p, err := Combine(left, right)
	if err != nil {
		panic(err)
	}
	return p
}

func combineRawText(left, right *Pattern) (string, bool) {
	switch {
	case !left.hasRaw && !right.hasRaw:
		return "", false
	case !left.hasRaw || left.raw == "":
		return right.raw, right.hasRaw
	case !right.hasRaw || right.raw == "":
		return left.raw, true
	}

	r := strings.TrimLeft(right.raw, "/")
	if r == "" {
		return left.raw, true
	}
	l := strings.TrimRight(left.raw, "/")

	var sb strings.Builder
	sb.Grow(len(l) + len(r) + 1)
	sb.WriteString(l)
	sb.WriteByte('/')
	sb.WriteString(r)
	return sb.String(), true
}
