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

// Package diwan assembles the document-processing pipeline from a
// configuration: local artifact storage, an optional BadgerDB lineage
// sink, and the staged orchestrator.
package diwan

import (
	"log/slog"
	"path/filepath"

	"github.com/poiesic/diwan/config"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/lineage"
	lineagebadger "github.com/poiesic/diwan/lineage/badger"
	"github.com/poiesic/diwan/pipeline"
	"github.com/poiesic/diwan/storage/local"
)

// Pipeline bundles the orchestrator with the resources it owns.
type Pipeline struct {
	backend      *local.Backend
	sink         lineage.Sink
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
}

// NewPipeline builds a pipeline from a validated config.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lang, err := core.ParseLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}

	backend, err := local.New(cfg.Storage.Root)
	if err != nil {
		return nil, err
	}

	var sink lineage.Sink
	if cfg.Lineage.Enabled {
		path := cfg.Lineage.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Storage.Root, path)
		}
		badgerSink, err := lineagebadger.OpenSink(path, false)
		if err != nil {
			return nil, err
		}
		sink = badgerSink
	}

	orch, err := pipeline.New(backend, sink,
		pipeline.WithLanguage(lang),
		pipeline.WithChunkSize(cfg.Chunking.Size),
		pipeline.WithChunkOverlap(cfg.Chunking.Overlap),
		pipeline.WithDeepCleanThreshold(cfg.Cleaning.DeepCleanThreshold),
		pipeline.WithDiacriticRemoval(cfg.Cleaning.RemoveDiacritics),
	)
	if err != nil {
		if sink != nil {
			sink.Close()
		}
		return nil, err
	}

	return &Pipeline{
		backend:      backend,
		sink:         sink,
		orchestrator: orch,
		logger:       slog.Default(),
	}, nil
}

// Orchestrator returns the single-document orchestrator.
func (p *Pipeline) Orchestrator() *pipeline.Orchestrator {
	return p.orchestrator
}

// Storage returns the artifact backend.
func (p *Pipeline) Storage() *local.Backend {
	return p.backend
}

// Close releases the lineage sink.
func (p *Pipeline) Close() error {
	if p.sink == nil {
		return nil
	}
	if err := p.sink.Close(); err != nil {
		p.logger.Error("error closing lineage sink", "err", err)
		return err
	}
	return nil
}
