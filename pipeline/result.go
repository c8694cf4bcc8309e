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

package pipeline

import (
	"time"

	"github.com/poiesic/diwan/chunk"
	"github.com/poiesic/diwan/clean"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/quality"
)

// Stage identifies a step of the pipeline. Stages are strictly
// ordered; a run's StageReached is the furthest stage it entered.
type Stage string

const (
	StageDownload Stage = "download"
	StageConvert  Stage = "convert"
	StageClean    Stage = "clean"
	StageQuality  Stage = "quality"
	StageChunk    Stage = "chunk"
)

// Status is a run's terminal outcome.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusRejected Status = "rejected"
	StatusError    Status = "error"
)

// Result is the full record of one document's trip through the
// pipeline. It is finalized exactly once by the orchestrator.
type Result struct {
	RunID            string
	SourcePath       string
	SourceCollection string
	Status           Status
	StageReached     Stage

	Conversion *core.ConversionResult
	Cleaning   *clean.Result
	Quality    *quality.Result
	Chunking   *chunk.Result

	Error       string
	StartedAt   time.Time
	CompletedAt time.Time

	ConvertedURI string
	CleanedURI   string
	ChunkedURIs  []string
	ManifestURI  string
}

// Duration is the wall-clock time the run took.
func (r *Result) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// ChunksProduced returns the chunk count, zero when chunking never
// ran.
func (r *Result) ChunksProduced() int {
	if r.Chunking == nil {
		return 0
	}
	return r.Chunking.TotalChunks
}
