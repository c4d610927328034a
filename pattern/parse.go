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
	"reflect"
	"slices"
	"strings"
)

// Option supplies per-parameter dictionaries at parse time.
type Option func(*parseConfig)

type parseConfig struct {
	defaults map[string]any
	required map[string]any
	policies map[string][]Policy
}

// WithDefaults supplies default values. Keys may name parameters or be
// extra route values the template does not declare.
func WithDefaults(defaults map[string]any) Option {
	return func(c *parseConfig) {
		if c.defaults == nil {
			c.defaults = make(map[string]any, len(defaults))
		}
		maps.Copy(c.defaults, defaults)
	}
}

// WithRequiredValues supplies values a route must match during URL generation.
// Every key must be a parameter or a default.
func WithRequiredValues(values map[string]any) Option {
	return func(c *parseConfig) {
		if c.required == nil {
			c.required = make(map[string]any, len(values))
		}
		maps.Copy(c.required, values)
	}
}

// WithPolicies appends constraints to the inline ones of each named parameter.
func WithPolicies(policies map[string][]Policy) Option {
	return func(c *parseConfig) {
		if c.policies == nil {
			c.policies = make(map[string][]Policy, len(policies))
		}
		for k, v := range policies {
			c.policies[k] = append(c.policies[k], v...)
		}
	}
}

// MustParse is like Parse but panics if the template is invalid.
// It simplifies static route tables declared at startup.
func MustParse(text string, opts ...Option) *Pattern {
	p, err := Parse(text, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses a route template.
//
// Both "" and "/" produce the root pattern, which has raw text but no
// segments. A single trailing slash is tolerated.
//
// Errors:
//   - *SyntaxError (wraps ErrInvalidPattern) for malformed templates
//   - *ConflictError (wraps ErrRoutePatternConflict) for duplicate parameter names
func Parse(text string, opts ...Option) (*Pattern, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Pattern{raw: text, hasRaw: true}
	if strings.Contains(text, "//") {
		return nil, syntaxErr(text, "empty segment")
	}

	body := strings.TrimPrefix(text, "/")
	body = strings.TrimSuffix(body, "/")
	if body != "" {
		rawSegs, err := splitSegments(text, body)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{})
		for i, rs := range rawSegs {
			seg, params, err := parseSegment(text, rs)
			if err != nil {
				return nil, err
			}
			for _, prm := range params {
				if _, dup := seen[prm.Name]; dup {
					return nil, &ConflictError{RawText: text, Parameter: prm.Name}
				}
				seen[prm.Name] = struct{}{}
				if prm.CatchAll && i != len(rawSegs)-1 {
					return nil, syntaxErr(text, "catch-all parameter %q must be in the last segment", prm.Name)
				}
			}
			p.segments = append(p.segments, seg)
			p.parameters = append(p.parameters, params...)
		}
	}

	if err := p.applyConfig(cfg); err != nil {
		return nil, err
	}
	p.finish()
	return p, nil
}

func (p *Pattern) applyConfig(cfg *parseConfig) error {
	declared := make(map[string]*Parameter, len(p.parameters))
	for i := range p.parameters {
		declared[p.parameters[i].Name] = &p.parameters[i]
	}

	for i := range p.parameters {
		prm := &p.parameters[i]
		if prm.HasDefault {
			if p.defaults == nil {
				p.defaults = make(map[string]any)
			}
			p.defaults[prm.Name] = prm.Default
		}
		if len(prm.Policies) > 0 {
			if p.policies == nil {
				p.policies = make(map[string][]Policy)
			}
			p.policies[prm.Name] = slices.Clone(prm.Policies)
		}
	}

	for k, v := range cfg.defaults {
		if prm, ok := declared[k]; ok && prm.HasDefault && !reflect.DeepEqual(prm.Default, v) {
			return syntaxErr(p.raw, "parameter %q has both an inline default and a different supplied default", k)
		}
		if p.defaults == nil {
			p.defaults = make(map[string]any)
		}
		p.defaults[k] = v
	}

	for k, v := range cfg.policies {
		if p.policies == nil {
			p.policies = make(map[string][]Policy)
		}
		p.policies[k] = append(p.policies[k], v...)
	}

	for k, v := range cfg.required {
		_, isParam := declared[k]
		_, isDefault := p.defaults[k]
		if !isParam && !isDefault {
			return syntaxErr(p.raw, "required value %q is neither a parameter nor a default", k)
		}
		if p.required == nil {
			p.required = make(map[string]any)
		}
		p.required[k] = v
	}
	return nil
}

// splitSegments splits on slashes that are outside parameter braces.
func splitSegments(raw, body string) ([]string, error) {
	var segs []string
	start, depth, paren := 0, 0, 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case depth > 0 && c == '(':
			paren++
		case depth > 0 && c == ')' && paren > 0:
			paren--
		case paren > 0:
		case c == '{':
			depth++
			if depth > 1 {
				return nil, syntaxErr(raw, "nested '{' at offset %d", i)
			}
		case c == '}':
			if depth == 0 {
				return nil, syntaxErr(raw, "unmatched '}' at offset %d", i)
			}
			depth--
		case c == '/' && depth == 0:
			segs = append(segs, body[start:i])
			start = i + 1
		}
	}
	if depth != 0 || paren != 0 {
		return nil, syntaxErr(raw, "unbalanced braces")
	}
	segs = append(segs, body[start:])
	for _, s := range segs {
		if s == "" {
			return nil, syntaxErr(raw, "empty segment")
		}
	}
	return segs, nil
}

func parseSegment(raw, seg string) (Segment, []Parameter, error) {
	// Colon form: the whole segment is a parameter.
	if strings.HasPrefix(seg, ":") && !strings.ContainsAny(seg, "{}") {
		prm, err := parseParameter(raw, seg[1:])
		if err != nil {
			return Segment{}, nil, err
		}
		return Segment{Parts: []Part{{Kind: PartParameter, Content: prm.Name}}}, []Parameter{prm}, nil
	}

	var (
		parts  []Part
		params []Parameter
	)
	for i := 0; i < len(seg); {
		if seg[i] != '{' {
			j := strings.IndexByte(seg[i:], '{')
			if j < 0 {
				j = len(seg)
			} else {
				j += i
			}
			parts = append(parts, Part{Kind: PartLiteral, Content: seg[i:j]})
			i = j
			continue
		}

		end := closingBrace(seg, i)
		if end < 0 {
			return Segment{}, nil, syntaxErr(raw, "unterminated parameter in segment %q", seg)
		}
		if n := len(parts); n > 0 && parts[n-1].Kind == PartParameter {
			return Segment{}, nil, syntaxErr(raw, "segment %q has adjacent parameters", seg)
		}
		prm, err := parseParameter(raw, seg[i+1:end])
		if err != nil {
			return Segment{}, nil, err
		}
		parts = append(parts, Part{Kind: PartParameter, Content: prm.Name})
		params = append(params, prm)
		i = end + 1
	}

	if len(parts) > 1 {
		for idx, prm := range params {
			if prm.CatchAll {
				return Segment{}, nil, syntaxErr(raw, "catch-all parameter %q must be the only part of its segment", prm.Name)
			}
			if prm.Optional && (idx != len(params)-1 || parts[len(parts)-1].Kind != PartParameter) {
				return Segment{}, nil, syntaxErr(raw, "optional parameter %q must end its segment", prm.Name)
			}
		}
	}
	return Segment{Parts: parts}, params, nil
}

// closingBrace returns the index of the '}' closing the '{' at open,
// skipping braces inside parenthesised constraint arguments.
func closingBrace(seg string, open int) int {
	paren := 0
	for i := open + 1; i < len(seg); i++ {
		switch seg[i] {
		case '(':
			paren++
		case ')':
			if paren > 0 {
				paren--
			}
		case '}':
			if paren == 0 {
				return i
			}
		}
	}
	return -1
}

// parseParameter parses the text between braces: [*|**]name[:policy...][=default|?]
func parseParameter(raw, token string) (Parameter, error) {
	prm := Parameter{EncodeSlashes: true}
	switch {
	case strings.HasPrefix(token, "**"):
		prm.CatchAll = true
		prm.EncodeSlashes = false
		token = token[2:]
	case strings.HasPrefix(token, "*"):
		prm.CatchAll = true
		token = token[1:]
	}

	nameEnd := strings.IndexAny(token, ":=?")
	if nameEnd < 0 {
		nameEnd = len(token)
	}
	prm.Name = token[:nameEnd]
	if prm.Name == "" {
		return Parameter{}, syntaxErr(raw, "parameter with empty name")
	}
	if strings.ContainsAny(prm.Name, "/{}*.") {
		return Parameter{}, syntaxErr(raw, "invalid parameter name %q", prm.Name)
	}

	rest := token[nameEnd:]
	for strings.HasPrefix(rest, ":") {
		rest = rest[1:]
		end := policyEnd(rest)
		pol, err := ParsePolicy(rest[:end])
		if err != nil {
			return Parameter{}, &SyntaxError{RawText: raw, Reason: err.Error()}
		}
		prm.Policies = append(prm.Policies, pol)
		rest = rest[end:]
	}

	switch {
	case rest == "":
	case rest == "?":
		prm.Optional = true
	case strings.HasPrefix(rest, "="):
		prm.Default = rest[1:]
		prm.HasDefault = true
	default:
		return Parameter{}, syntaxErr(raw, "unexpected %q in parameter %q", rest, prm.Name)
	}

	if prm.Optional && prm.CatchAll {
		return Parameter{}, syntaxErr(raw, "catch-all parameter %q cannot be optional", prm.Name)
	}
	return prm, nil
}

// policyEnd finds where one inline policy stops: at the next ':' or '=' outside
// parentheses, or at a trailing '?'.
func policyEnd(s string) int {
	paren := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			paren++
		case ')':
			if paren > 0 {
				paren--
			}
		case ':', '=':
			if paren == 0 {
				return i
			}
		case '?':
			if paren == 0 && i == len(s)-1 {
				return i
			}
		}
	}
	return len(s)
}
