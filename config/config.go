// Copyright 2025 Poiesic Systems
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

// Package config loads pipeline configuration from YAML. Defaults are
// applied first and the file is unmarshaled over them, so omitted
// keys keep their default values, booleans included.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/diwan/chunk"
	"github.com/poiesic/diwan/clean"
	"github.com/poiesic/diwan/core"
)

// Config holds everything needed to assemble a pipeline.
type Config struct {
	Language string `yaml:"language"`

	Storage struct {
		Root string `yaml:"root"`
	} `yaml:"storage"`

	Lineage struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"lineage"`

	Chunking struct {
		Size    int `yaml:"size"`
		Overlap int `yaml:"overlap"`
	} `yaml:"chunking"`

	Cleaning struct {
		RemoveDiacritics   bool    `yaml:"remove_diacritics"`
		DeepCleanThreshold float64 `yaml:"deep_clean_threshold"`
	} `yaml:"cleaning"`

	Workers int `yaml:"workers"`
}

// Default returns a config with every field at its default.
func Default() *Config {
	cfg := &Config{
		Language: string(core.LanguageArabic),
		Workers:  0,
	}
	cfg.Lineage.Enabled = true
	cfg.Lineage.Path = "lineage"
	cfg.Chunking.Size = chunk.DefaultChunkSize
	cfg.Chunking.Overlap = chunk.DefaultOverlap
	cfg.Cleaning.RemoveDiacritics = true
	cfg.Cleaning.DeepCleanThreshold = clean.DefaultDeepThreshold
	return cfg
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for inconsistent values.
func (c *Config) Validate() error {
	if _, err := core.ParseLanguage(c.Language); err != nil {
		return err
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root is required")
	}
	if c.Chunking.Size < 1 {
		return fmt.Errorf("chunking.size must be positive")
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must not be negative")
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be smaller than chunking.size")
	}
	if c.Cleaning.DeepCleanThreshold < 0 || c.Cleaning.DeepCleanThreshold > 1 {
		return fmt.Errorf("cleaning.deep_clean_threshold must be in [0, 1]")
	}
	if c.Lineage.Enabled && c.Lineage.Path == "" {
		return fmt.Errorf("lineage.path is required when lineage is enabled")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}
