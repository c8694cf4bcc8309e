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

package lineage

import (
	"context"
	"time"
)

// DefaultBatchRows is the recommended insert batch size for sinks that
// do not impose their own limit.
const DefaultBatchRows = 500

// RunRow is the run-level lineage record, one per pipeline run.
type RunRow struct {
	RunID        string            `json:"run_id"`
	SourceURI    string            `json:"source_uri"`
	SourceFormat string            `json:"source_format"`
	StageReached string            `json:"stage_reached"`
	Status       string            `json:"status"`
	ChunkCount   int               `json:"chunk_count"`
	QualityScore float64           `json:"quality_score"`
	QualityFlags []string          `json:"quality_flags,omitempty"`
	Error        string            `json:"error,omitempty"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  time.Time         `json:"completed_at"`
	DurationSecs float64           `json:"duration_seconds"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ChunkRow is the chunk-level lineage record, one per emitted chunk on
// a successful run.
type ChunkRow struct {
	ChunkID          string            `json:"chunk_id"`
	RunID            string            `json:"run_id"`
	ChunkIndex       int               `json:"chunk_index"`
	WordCount        int               `json:"word_count"`
	CharCount        int               `json:"char_count"`
	ContentHash      string            `json:"content_hash"`
	QualityScore     float64           `json:"quality_score"`
	QualityFlags     []string          `json:"quality_flags,omitempty"`
	HasOverlap       bool              `json:"has_overlap"`
	SourceFile       string            `json:"source_file"`
	LanguageDetected string            `json:"language_detected"`
	ConverterUsed    string            `json:"converter_used"`
	CleaningLevel    string            `json:"cleaning_level"`
	ChunkMethod      string            `json:"chunk_method"`
	CreatedAt        time.Time         `json:"created_at"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Sink receives lineage rows. Implementations must tolerate repeated
// inserts of the same run id; callers batch rows to MaxBatchRows.
type Sink interface {
	// InsertRunRows writes run-level rows.
	InsertRunRows(ctx context.Context, rows []RunRow) error

	// InsertChunkRows writes chunk-level rows.
	InsertChunkRows(ctx context.Context, rows []ChunkRow) error

	// MaxBatchRows reports the largest batch the sink accepts per
	// insert call.
	MaxBatchRows() int

	// Close releases sink resources.
	Close() error
}
