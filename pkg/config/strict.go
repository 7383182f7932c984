// Copyright 2025 walteh LLC
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


package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&StrictParser{
		Format:     "YAML",
		Extensions: []string{".yaml", ".yml"},
		decode: func(r io.Reader, cfg *Config) error {
			dec := yaml.NewDecoder(r)
			dec.KnownFields(true)
			return dec.Decode(cfg)
		},
	})
	Register(&StrictParser{
		Format:     "JSON",
		Extensions: []string{".json"},
		decode: func(r io.Reader, cfg *Config) error {
			dec := json.NewDecoder(r)
			dec.DisallowUnknownFields()
			if err := dec.Decode(cfg); err != nil {
				return err
			}
			// a second document in the same file is a mistake, not an override
			if dec.More() {
				return errors.New("trailing data after config object")
			}
			return nil
		},
	})
}

// 🔧 StrictParser decodes tagged documents and rejects keys Config does not know
type StrictParser struct {
	Format     string
	Extensions []string
	decode     func(io.Reader, *Config) error
}

func (p *StrictParser) CanParse(filename string) bool {
	return slices.Contains(p.Extensions, strings.ToLower(filepath.Ext(filename)))
}

func (p *StrictParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := p.decode(bytes.NewReader(data), cfg); err != nil {
		return nil, errors.Errorf("parsing %s: %w", p.Format, err)
	}
	return cfg, nil
}
