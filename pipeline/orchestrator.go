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
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/diwan/chunk"
	"github.com/poiesic/diwan/clean"
	"github.com/poiesic/diwan/convert"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/lineage"
	"github.com/poiesic/diwan/quality"
	"github.com/poiesic/diwan/storage"
)

// pipelineVersion is recorded in every manifest and lineage row.
const pipelineVersion = "v2"

// Orchestrator drives one document at a time through
// download, convert, clean, quality, and chunk, persisting stage
// artifacts and emitting a manifest plus lineage rows for every run.
type Orchestrator struct {
	storage  storage.Backend
	sink     lineage.Sink
	registry *convert.Registry
	cleaner  clean.Cleaner
	gate     *quality.Gate
	chunker  *chunk.Chunker
	logger   *slog.Logger
	stats    *Stats

	language         core.Language
	chunkSize        int
	chunkOverlap     int
	deepThreshold    float64
	removeDiacritics bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLanguage sets the corpus language driving cleaning and quality
// checks. Default is Arabic.
func WithLanguage(lang core.Language) Option {
	return func(o *Orchestrator) { o.language = lang }
}

// WithChunkSize sets the chunk window size in words.
func WithChunkSize(n int) Option {
	return func(o *Orchestrator) { o.chunkSize = n }
}

// WithChunkOverlap sets the word overlap between consecutive chunks.
func WithChunkOverlap(n int) Option {
	return func(o *Orchestrator) { o.chunkOverlap = n }
}

// WithDeepCleanThreshold sets the pre-clean quality score below which
// the deep cleaning pass runs.
func WithDeepCleanThreshold(threshold float64) Option {
	return func(o *Orchestrator) { o.deepThreshold = threshold }
}

// WithDiacriticRemoval toggles Arabic diacritic stripping.
func WithDiacriticRemoval(enabled bool) Option {
	return func(o *Orchestrator) { o.removeDiacritics = enabled }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// New creates an orchestrator. A nil sink disables lineage emission;
// the storage backend is required.
func New(backend storage.Backend, sink lineage.Sink, opts ...Option) (*Orchestrator, error) {
	if backend == nil {
		return nil, ErrStorageRequired
	}

	o := &Orchestrator{
		storage:          backend,
		sink:             sink,
		logger:           slog.Default(),
		stats:            &Stats{},
		language:         core.LanguageArabic,
		chunkSize:        chunk.DefaultChunkSize,
		chunkOverlap:     chunk.DefaultOverlap,
		deepThreshold:    clean.DefaultDeepThreshold,
		removeDiacritics: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.registry = convert.NewRegistry(o.logger)

	cleaner, err := clean.New(o.language,
		clean.WithDeepThreshold(o.deepThreshold),
		clean.WithDiacriticRemoval(o.removeDiacritics),
		clean.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}
	o.cleaner = cleaner

	gate, err := quality.NewGate(o.language, quality.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	o.gate = gate

	chunker, err := chunk.NewChunker(
		chunk.WithChunkSize(o.chunkSize),
		chunk.WithOverlap(o.chunkOverlap),
	)
	if err != nil {
		return nil, err
	}
	o.chunker = chunker

	return o, nil
}

// Stats returns the orchestrator's process-lifetime counters.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// SupportedExtensions lists the file extensions the orchestrator can
// convert.
func (o *Orchestrator) SupportedExtensions() []string {
	return o.registry.SupportedExtensions()
}

// chunkMethod names the chunking configuration for lineage rows.
func (o *Orchestrator) chunkMethod() string {
	return fmt.Sprintf("word_overlap_%d_%d", o.chunkSize, o.chunkOverlap)
}

// ProcessFile runs one document through every stage. It never returns
// an error: failures finalize the run with status "error" and the
// failing stage, and a manifest plus lineage rows are written on every
// terminal path.
func (o *Orchestrator) ProcessFile(ctx context.Context, sourcePath, collection string) *Result {
	runID := core.NewRunID()
	started := time.Now().UTC()
	stem := fileStem(sourcePath)
	o.stats.processed.Add(1)

	logger := o.logger.With("run_id", runID, "source", sourcePath)

	r := &Result{
		RunID:            runID,
		SourcePath:       sourcePath,
		SourceCollection: collection,
		StartedAt:        started,
	}

	// Download.
	localPath, err := o.storage.DownloadToTemp(ctx, sourcePath)
	if err != nil {
		return o.finalizeError(ctx, r, StageDownload, err.Error())
	}

	// Convert.
	conversion := o.registry.Convert(localPath)
	r.Conversion = &conversion
	if !conversion.Success {
		return o.finalizeError(ctx, r, StageConvert, strings.Join(conversion.Errors, "; "))
	}
	convertedPath := fmt.Sprintf("converted/%s/%s.txt", runID, stem)
	if uri, err := o.storage.UploadText(ctx, convertedPath, conversion.Text); err != nil {
		logger.Warn("failed to persist converted text", "err", err)
	} else {
		r.ConvertedURI = uri
	}

	// Clean. The pre-clean score only decides whether the deep pass
	// runs; the gate decision below uses the post-clean score.
	preQuality := o.gate.Check(conversion.Text)
	cleaning := o.cleaner.Clean(conversion.Text, preQuality.Score)
	r.Cleaning = &cleaning
	cleanedPath := fmt.Sprintf("cleaned/%s/%s.txt", runID, stem)
	if uri, err := o.storage.UploadText(ctx, cleanedPath, cleaning.Text); err != nil {
		logger.Warn("failed to persist cleaned text", "err", err)
	} else {
		r.CleanedURI = uri
	}

	// Quality gate.
	q := o.gate.Check(cleaning.Text)
	r.Quality = q
	if !q.Passed {
		rejectedPath := fmt.Sprintf("rejected/%s/%s.txt", runID, stem)
		if _, err := o.storage.UploadText(ctx, rejectedPath, cleaning.Text); err != nil {
			logger.Warn("failed to persist rejected text", "err", err)
		}
		o.stats.rejected.Add(1)
		r.Status = StatusRejected
		r.StageReached = StageQuality
		r.CompletedAt = time.Now().UTC()
		logger.Info("document rejected", "score", q.Score, "flags", q.FailedFlags())
		o.writeManifest(ctx, r)
		o.writeLineage(ctx, r)
		return r
	}

	// Chunk.
	chunking := o.chunker.Chunk(cleaning.Text, sourcePath, map[string]string{
		"run_id":            runID,
		"source_collection": collection,
		"source_format":     string(conversion.Format),
		"quality_score":     strconv.FormatFloat(q.Score, 'f', 4, 64),
	})
	r.Chunking = chunking
	for _, c := range chunking.Chunks {
		chunkPath := fmt.Sprintf("chunked/%s/%04d.txt", runID, c.Index)
		uri, err := o.storage.UploadText(ctx, chunkPath, c.Text)
		if err != nil {
			logger.Warn("failed to persist chunk", "index", c.Index, "err", err)
			continue
		}
		r.ChunkedURIs = append(r.ChunkedURIs, uri)
	}

	o.stats.succeeded.Add(1)
	o.stats.totalChunks.Add(int64(chunking.TotalChunks))
	r.Status = StatusSuccess
	r.StageReached = StageChunk
	r.CompletedAt = time.Now().UTC()
	logger.Info("document processed",
		"chunks", chunking.TotalChunks,
		"score", q.Score,
		"duration", r.Duration())
	o.writeManifest(ctx, r)
	o.writeLineage(ctx, r)
	return r
}

// finalizeError records an error outcome, writing the manifest and
// lineage like every other terminal path.
func (o *Orchestrator) finalizeError(ctx context.Context, r *Result, stage Stage, errMsg string) *Result {
	o.stats.errored.Add(1)
	r.Status = StatusError
	r.StageReached = stage
	r.Error = errMsg
	r.CompletedAt = time.Now().UTC()
	o.logger.Error("pipeline stage failed",
		"run_id", r.RunID,
		"source", r.SourcePath,
		"stage", stage,
		"err", errMsg)
	o.writeManifest(ctx, r)
	o.writeLineage(ctx, r)
	return r
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeManifest persists the run summary JSON. Failures are logged and
// swallowed.
func (o *Orchestrator) writeManifest(ctx context.Context, r *Result) {
	var score any
	flags := []string{}
	if r.Quality != nil {
		score = r.Quality.Score
		if failed := r.Quality.FailedFlags(); failed != nil {
			flags = failed
		}
	}
	format := string(core.FormatUnknown)
	if r.Conversion != nil {
		format = string(r.Conversion.Format)
	}
	var errMsg any
	if r.Error != "" {
		errMsg = r.Error
	}

	manifest := map[string]any{
		"run_id":             r.RunID,
		"source_path":        r.SourcePath,
		"source_collection":  r.SourceCollection,
		"status":             string(r.Status),
		"stage_reached":      string(r.StageReached),
		"chunks_produced":    r.ChunksProduced(),
		"quality_score":      score,
		"quality_flags":      flags,
		"source_format":      format,
		"converted_uri":      r.ConvertedURI,
		"cleaned_uri":        r.CleanedURI,
		"chunked_uris_count": len(r.ChunkedURIs),
		"error":              errMsg,
		"started_at":         r.StartedAt.Format(time.RFC3339Nano),
		"completed_at":       r.CompletedAt.Format(time.RFC3339Nano),
		"duration_seconds":   r.Duration().Seconds(),
		"pipeline_version":   pipelineVersion,
	}

	manifestPath := fmt.Sprintf("manifests/%s.json", r.RunID)
	uri, err := o.storage.UploadJSON(ctx, manifestPath, manifest)
	if err != nil {
		o.logger.Error("failed to write manifest", "run_id", r.RunID, "err", err)
		return
	}
	r.ManifestURI = uri
}

// writeLineage emits the run row and, on success, one row per chunk,
// batched to the sink's limit. Sink failures are logged and never
// affect the run's outcome.
func (o *Orchestrator) writeLineage(ctx context.Context, r *Result) {
	if o.sink == nil {
		return
	}

	runRow := o.buildRunRow(r)
	if err := o.sink.InsertRunRows(ctx, []lineage.RunRow{runRow}); err != nil {
		o.logger.Error("failed to insert run lineage", "run_id", r.RunID, "err", err)
	}

	if r.Chunking == nil || len(r.Chunking.Chunks) == 0 {
		return
	}
	rows := o.buildChunkRows(r)
	batchSize := o.sink.MaxBatchRows()
	if batchSize < 1 {
		batchSize = lineage.DefaultBatchRows
	}
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := o.sink.InsertChunkRows(ctx, rows[i:end]); err != nil {
			o.logger.Error("failed to insert chunk lineage",
				"run_id", r.RunID,
				"batch", i/batchSize,
				"err", err)
		}
	}
}

func (o *Orchestrator) buildRunRow(r *Result) lineage.RunRow {
	row := lineage.RunRow{
		RunID:        r.RunID,
		SourceURI:    r.SourcePath,
		SourceFormat: string(core.FormatUnknown),
		StageReached: string(r.StageReached),
		Status:       string(r.Status),
		ChunkCount:   r.ChunksProduced(),
		Error:        r.Error,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		DurationSecs: r.Duration().Seconds(),
		Metadata: map[string]string{
			"source_collection": r.SourceCollection,
			"pipeline_version":  pipelineVersion,
		},
	}
	if r.Conversion != nil {
		row.SourceFormat = string(r.Conversion.Format)
	}
	if r.Quality != nil {
		row.QualityScore = r.Quality.Score
		row.QualityFlags = r.Quality.FailedFlags()
	}
	return row
}

func (o *Orchestrator) buildChunkRows(r *Result) []lineage.ChunkRow {
	if r.Chunking == nil {
		return nil
	}

	languageDetected := ""
	qualityScore := 0.0
	var qualityFlags []string
	if r.Quality != nil {
		qualityScore = r.Quality.Score
		qualityFlags = r.Quality.FailedFlags()
		if r.Quality.ArabicRatio >= 0.5 {
			languageDetected = "ar"
		} else {
			languageDetected = "other"
		}
	}
	converterUsed := string(core.FormatUnknown)
	if r.Conversion != nil {
		converterUsed = string(r.Conversion.Format)
	}
	cleaningLevel := "none"
	if r.Cleaning != nil {
		switch {
		case r.Cleaning.DeepApplied:
			cleaningLevel = "deep"
		case r.Cleaning.QuickApplied:
			cleaningLevel = "quick"
		}
	}

	rows := make([]lineage.ChunkRow, 0, len(r.Chunking.Chunks))
	for _, c := range r.Chunking.Chunks {
		rows = append(rows, lineage.ChunkRow{
			ChunkID:          fmt.Sprintf("%s_%04d", r.RunID, c.Index),
			RunID:            r.RunID,
			ChunkIndex:       c.Index,
			WordCount:        c.WordCount,
			CharCount:        c.CharCount,
			ContentHash:      c.ContentHash,
			QualityScore:     qualityScore,
			QualityFlags:     qualityFlags,
			HasOverlap:       c.HasOverlap,
			SourceFile:       r.SourcePath,
			LanguageDetected: languageDetected,
			ConverterUsed:    converterUsed,
			CleaningLevel:    cleaningLevel,
			ChunkMethod:      o.chunkMethod(),
			CreatedAt:        r.CompletedAt,
			Metadata:         c.Metadata,
		})
	}
	return rows
}
