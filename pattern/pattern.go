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
	"maps"
	"slices"
)

// PartKind identifies what a segment part holds.
type PartKind uint8

const (
	// PartLiteral is static text that must match exactly.
	PartLiteral PartKind = iota
	// PartParameter captures a named value.
	PartParameter
)

// Part is one piece of a path segment.
// For literals Content is the text; for parameters it is the parameter name.
type Part struct {
	Kind    PartKind
	Content string
}

// Segment is the text between two slashes.
type Segment struct {
	Parts []Part
}

// IsSimple reports whether the segment consists of a single part.
func (s Segment) IsSimple() bool {
	return len(s.Parts) == 1
}

// Parameter describes a named route value.
type Parameter struct {
	Name       string
	Default    any  // Default value, meaningful only when HasDefault is set
	HasDefault bool // Whether a default was declared inline or through WithDefaults
	Optional   bool // {name?}
	CatchAll   bool // {*name} or {**name}
	// EncodeSlashes is false for {**name}: slashes in the captured value are
	// kept verbatim when generating URLs.
	EncodeSlashes bool
	Policies      []Policy // Inline and externally supplied constraints
}

// Pattern is an immutable parsed route template.
//
// The zero value is not useful; obtain patterns from [Parse], [Combine] or
// [Empty].
type Pattern struct {
	raw    string
	hasRaw bool

	segments   []Segment
	parameters []Parameter
	index      map[string]int // parameter name -> position in parameters

	defaults map[string]any
	required map[string]any
	policies map[string][]Policy

	inbound  float64
	outbound float64
}

var empty = &Pattern{}

// Empty returns the prefix sentinel: a pattern without raw text, segments or
// parameters. Combining any pattern with Empty yields that pattern's text.
func Empty() *Pattern {
	return empty
}

// IsEmpty reports whether p carries no raw text and no segments.
// A nil pattern is empty.
func (p *Pattern) IsEmpty() bool {
	return p == nil || (!p.hasRaw && len(p.segments) == 0)
}

// RawText returns the template text. It is empty for [Empty].
func (p *Pattern) RawText() string {
	if p == nil {
		return ""
	}
	return p.raw
}

// HasRawText reports whether the pattern was created from text.
func (p *Pattern) HasRawText() bool {
	return p != nil && p.hasRaw
}

// String returns the raw text, or "/" for a pattern without text.
func (p *Pattern) String() string {
	if p == nil || p.raw == "" {
		return "/"
	}
	return p.raw
}

// Segments returns a copy of the path segments.
func (p *Pattern) Segments() []Segment {
	if p == nil {
		return nil
	}
	out := make([]Segment, len(p.segments))
	for i, s := range p.segments {
		out[i] = Segment{Parts: slices.Clone(s.Parts)}
	}
	return out
}

// Parameters returns the declared parameters in declaration order.
func (p *Pattern) Parameters() []Parameter {
	if p == nil {
		return nil
	}
	return slices.Clone(p.parameters)
}

// ParameterNames returns the parameter names in declaration order.
func (p *Pattern) ParameterNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.parameters))
	for i, prm := range p.parameters {
		names[i] = prm.Name
	}
	return names
}

// Parameter looks up a parameter by name.
func (p *Pattern) Parameter(name string) (Parameter, bool) {
	if p == nil {
		return Parameter{}, false
	}
	i, ok := p.index[name]
	if !ok {
		return Parameter{}, false
	}
	return p.parameters[i], true
}

// Defaults returns a copy of the default values.
func (p *Pattern) Defaults() map[string]any {
	if p == nil || len(p.defaults) == 0 {
		return nil
	}
	return maps.Clone(p.defaults)
}

// RequiredValues returns a copy of the required values.
func (p *Pattern) RequiredValues() map[string]any {
	if p == nil || len(p.required) == 0 {
		return nil
	}
	return maps.Clone(p.required)
}

// Policies returns the constraints attached to the named parameter.
func (p *Pattern) Policies(name string) []Policy {
	if p == nil {
		return nil
	}
	return slices.Clone(p.policies[name])
}

// InboundPrecedence is used to order patterns while matching requests.
// Lower values are more specific.
func (p *Pattern) InboundPrecedence() float64 {
	if p == nil {
		return 0
	}
	return p.inbound
}

// OutboundPrecedence is used to order patterns while generating URLs.
// Higher values are more specific.
func (p *Pattern) OutboundPrecedence() float64 {
	if p == nil {
		return 0
	}
	return p.outbound
}

// IsStatic reports whether the pattern declares no parameters.
func (p *Pattern) IsStatic() bool {
	return p == nil || len(p.parameters) == 0
}

// finish indexes the parameters, merges per-parameter dictionaries into the
// parameter descriptors and computes precedence.
func (p *Pattern) finish() {
	p.index = make(map[string]int, len(p.parameters))
	for i := range p.parameters {
		prm := &p.parameters[i]
		p.index[prm.Name] = i
		if v, ok := p.defaults[prm.Name]; ok {
			prm.Default = v
			prm.HasDefault = true
		}
		if pol := p.policies[prm.Name]; len(pol) > 0 {
			prm.Policies = slices.Clone(pol)
		}
	}
	p.inbound = computeInbound(p)
	p.outbound = computeOutbound(p)
}
