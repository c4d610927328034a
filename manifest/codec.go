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
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Format names a manifest encoding.
type Format string

// Built-in formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Decoder converts encoded data into the value pointed to by v.
type Decoder interface {
	Decode(data []byte, v any) error
}

// YAMLDecoder decodes YAML documents.
type YAMLDecoder struct{}

// Decode implements Decoder.
func (YAMLDecoder) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// TOMLDecoder decodes TOML documents.
type TOMLDecoder struct{}

// Decode implements Decoder.
func (TOMLDecoder) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// JSONDecoder decodes JSON documents.
type JSONDecoder struct{}

// Decode implements Decoder.
func (JSONDecoder) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

var (
	decodersMu sync.RWMutex
	decoders   = map[Format]Decoder{
		FormatYAML: YAMLDecoder{},
		FormatTOML: TOMLDecoder{},
		FormatJSON: JSONDecoder{},
	}
)

// RegisterDecoder registers or replaces the decoder for a format.
func RegisterDecoder(format Format, decoder Decoder) {
	decodersMu.Lock()
	defer decodersMu.Unlock()
	decoders[format] = decoder
}

// DecoderFor returns the decoder registered for format.
func DecoderFor(format Format) (Decoder, error) {
	decodersMu.RLock()
	defer decodersMu.RUnlock()
	d, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return d, nil
}

// FormatFromPath infers the format from a file extension.
// ".yml" is accepted as YAML.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "yml":
		return FormatYAML, nil
	case "":
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	if _, err := DecoderFor(Format(ext)); err != nil {
		return "", err
	}
	return Format(ext), nil
}
