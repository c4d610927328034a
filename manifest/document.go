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
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaName = "manifest.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(schemaName, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaName)
})

// Document is a decoded manifest.
type Document struct {
	// Prefix is applied to every route and group in the document.
	Prefix string `config:"prefix"`

	// Defaults fills the empty fields of every route. Metadata keys are
	// merged; keys set on the route win.
	Defaults Route `config:"defaults"`

	Routes []Route `config:"routes"`
	Groups []Group `config:"groups"`
}

// Group is a nested route group.
type Group struct {
	Prefix   string         `config:"prefix"`
	Name     string         `config:"name"`
	Tags     []string       `config:"tags"`
	Metadata map[string]any `config:"metadata"`
	Routes   []Route        `config:"routes"`
	Groups   []Group        `config:"groups"`
}

// Route declares one endpoint.
//
// Methods and Tags accept a list or a comma separated string.
type Route struct {
	Methods     []string       `config:"methods"`
	Path        string         `config:"path"`
	Handler     string         `config:"handler"`
	Name        string         `config:"name"`
	DisplayName string         `config:"display_name"`
	Description string         `config:"description"`
	Summary     string         `config:"summary"`
	Tags        []string       `config:"tags"`
	Order       int            `config:"order"`
	Metadata    map[string]any `config:"metadata"`
}

// Parse decodes, validates and binds a manifest.
//
// Errors:
//   - ErrUnknownFormat if no decoder is registered for format
//   - *Error with Operation "decode", "validate" or "bind"
func Parse(data []byte, format Format) (*Document, error) {
	dec, err := DecoderFor(format)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err = dec.Decode(data, &raw); err != nil {
		return nil, NewError(string(format), "decode", err)
	}
	return FromMap(raw)
}

// FromMap validates and binds an already decoded manifest.
func FromMap(raw map[string]any) (*Document, error) {
	if raw == nil {
		raw = make(map[string]any)
	}

	// Round-trip through JSON so that every decoder hands the schema and
	// the binder the same value shapes.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, NewError("document", "decode", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, NewError("document", "decode", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, NewError("schema", "compile", err)
	}
	if err = schema.Validate(inst); err != nil {
		return nil, NewError("schema", "validate", err)
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           &doc,
	})
	if err != nil {
		return nil, NewError("document", "bind", err)
	}
	if err = decoder.Decode(inst); err != nil {
		return nil, NewError("document", "bind", err)
	}

	if err = doc.applyDefaults(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) applyDefaults() error {
	return d.walk(func(field string, r *Route) error {
		if err := mergo.Merge(r, d.Defaults); err != nil {
			return NewFieldError("defaults", field, "merge", err)
		}
		return nil
	})
}

// walk calls fn for every route, depth first, with its document path.
func (d *Document) walk(fn func(field string, r *Route) error) error {
	return walkRoutes("", d.Routes, d.Groups, fn)
}

func walkRoutes(base string, routes []Route, groups []Group, fn func(string, *Route) error) error {
	for i := range routes {
		if err := fn(fmt.Sprintf("%sroutes[%d]", base, i), &routes[i]); err != nil {
			return err
		}
	}
	for i := range groups {
		g := &groups[i]
		if err := walkRoutes(fmt.Sprintf("%sgroups[%d].", base, i), g.Routes, g.Groups, fn); err != nil {
			return err
		}
	}
	return nil
}

// RouteCount returns the number of routes declared in the document.
func (d *Document) RouteCount() int {
	n := 0
	_ = d.walk(func(string, *Route) error {
		n++
		return nil
	})
	return n
}
