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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ConstraintKind represents the type of constraint applied to a route parameter.
type ConstraintKind uint8

const (
	// ConstraintCustom is a policy reference this package does not interpret.
	ConstraintCustom ConstraintKind = iota
	ConstraintInt
	ConstraintFloat
	ConstraintUUID
	ConstraintAlpha
	ConstraintBool
	ConstraintRegex
	ConstraintEnum
	ConstraintDate     // RFC3339 full-date
	ConstraintDateTime // RFC3339 date-time
	ConstraintMin
	ConstraintMax
	ConstraintLength
)

// Policy is a parameter policy reference such as "int" or "regex(^\d+$)".
// Well-known names are typed; anything else is kept as ConstraintCustom so
// that higher layers can resolve it.
type Policy struct {
	Content string // Original text, e.g. "min(1)"
	Name    string // Policy name, e.g. "min"
	Args    []string
	Kind    ConstraintKind
	re      *regexp.Regexp
}

// ParsePolicy parses the text that follows a colon inside a parameter.
func ParsePolicy(content string) (Policy, error) {
	if content == "" {
		return Policy{}, fmt.Errorf("%w: empty constraint", ErrInvalidPattern)
	}
	pol := Policy{Content: content, Name: content}

	if open := strings.IndexByte(content, '('); open >= 0 {
		if !strings.HasSuffix(content, ")") {
			return Policy{}, fmt.Errorf("%w: constraint %q is missing ')'", ErrInvalidPattern, content)
		}
		pol.Name = content[:open]
		arg := content[open+1 : len(content)-1]
		switch pol.Name {
		case "regex":
			pol.Args = []string{arg}
		case "enum":
			pol.Args = strings.Split(arg, "|")
		default:
			for a := range strings.SplitSeq(arg, ",") {
				pol.Args = append(pol.Args, strings.TrimSpace(a))
			}
		}
	}

	switch pol.Name {
	case "int", "long":
		pol.Kind = ConstraintInt
	case "float", "double", "decimal":
		pol.Kind = ConstraintFloat
	case "uuid", "guid":
		pol.Kind = ConstraintUUID
	case "alpha":
		pol.Kind = ConstraintAlpha
	case "bool":
		pol.Kind = ConstraintBool
	case "regex":
		pol.Kind = ConstraintRegex
	case "enum":
		pol.Kind = ConstraintEnum
	case "date":
		pol.Kind = ConstraintDate
	case "datetime":
		pol.Kind = ConstraintDateTime
	case "min":
		pol.Kind = ConstraintMin
	case "max":
		pol.Kind = ConstraintMax
	case "length":
		pol.Kind = ConstraintLength
	default:
		pol.Kind = ConstraintCustom
	}

	if err := pol.compile(); err != nil {
		return Policy{}, err
	}
	return pol, nil
}

// MustParsePolicy is like ParsePolicy but panics on error.
func MustParsePolicy(content string) Policy {
	pol, err := ParsePolicy(content)
	if err != nil {
		panic(err)
	}
	return pol
}

func (pc *Policy) compile() error {
	var expr string
	switch pc.Kind {
	case ConstraintInt:
		expr = `-?\d+`
	case ConstraintFloat:
		expr = `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	case ConstraintUUID:
		expr = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
	case ConstraintAlpha:
		expr = `[a-zA-Z]+`
	case ConstraintBool:
		expr = `(?i:true|false)`
	case ConstraintRegex:
		if len(pc.Args) != 1 || pc.Args[0] == "" {
			return fmt.Errorf("%w: regex constraint requires a pattern", ErrInvalidPattern)
		}
		expr = strings.TrimSuffix(strings.TrimPrefix(pc.Args[0], "^"), "$")
	case ConstraintEnum:
		escaped := make([]string, 0, len(pc.Args))
		for _, v := range pc.Args {
			escaped = append(escaped, regexp.QuoteMeta(v))
		}
		expr = "(" + strings.Join(escaped, "|") + ")"
	case ConstraintDate:
		expr = `\d{4}-\d{2}-\d{2}`
	case ConstraintDateTime:
		expr = `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`
	case ConstraintMin, ConstraintMax:
		if len(pc.Args) != 1 {
			return fmt.Errorf("%w: %s constraint requires one argument", ErrInvalidPattern, pc.Name)
		}
		if _, err := strconv.ParseInt(pc.Args[0], 10, 64); err != nil {
			return fmt.Errorf("%w: %s constraint argument %q is not an integer", ErrInvalidPattern, pc.Name, pc.Args[0])
		}
		return nil
	case ConstraintLength:
		if len(pc.Args) < 1 || len(pc.Args) > 2 {
			return fmt.Errorf("%w: length constraint requires one or two arguments", ErrInvalidPattern)
		}
		for _, a := range pc.Args {
			if _, err := strconv.Atoi(a); err != nil {
				return fmt.Errorf("%w: length constraint argument %q is not an integer", ErrInvalidPattern, a)
			}
		}
		return nil
	default:
		return nil
	}

	rx, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return fmt.Errorf("%w: constraint %q: %w", ErrInvalidPattern, pc.Content, err)
	}
	pc.re = rx
	return nil
}

// Regexp returns the anchored expression the policy compiles to, or nil for
// policies that are not expressed as a regular expression.
func (pc Policy) Regexp() *regexp.Regexp {
	return pc.re
}

// Match reports whether value satisfies the policy.
// Custom policies always match; they are resolved elsewhere.
func (pc Policy) Match(value string) bool {
	switch pc.Kind {
	case ConstraintMin, ConstraintMax:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		bound, _ := strconv.ParseInt(pc.Args[0], 10, 64)
		if pc.Kind == ConstraintMin {
			return n >= bound
		}
		return n <= bound
	case ConstraintLength:
		l := len([]rune(value))
		lo, _ := strconv.Atoi(pc.Args[0])
		if len(pc.Args) == 1 {
			return l == lo
		}
		hi, _ := strconv.Atoi(pc.Args[1])
		return l >= lo && l <= hi
	case ConstraintCustom:
		return true
	}
	if pc.re == nil {
		return true
	}
	return pc.re.MatchString(value)
}
