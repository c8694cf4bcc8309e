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

package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/diwan/lineage"
)

// Key prefixes for the two row types.
const (
	runRowPrefix   = "runrow"
	chunkRowPrefix = "chkrow"
)

// Sink persists lineage rows in a BadgerDB keyspace. Rows are stored
// as JSON values keyed by run id (and chunk index for chunk rows), so
// re-inserting a run overwrites rather than duplicates.
type Sink struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ lineage.Sink = (*Sink)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenSink opens a lineage sink backed by BadgerDB at the given path.
// Creates the directory if it doesn't exist.
func OpenSink(filePath string, inMemory bool) (*Sink, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Sink{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// NewMemorySink creates an in-memory sink for testing.
// Caller must close it when done.
func NewMemorySink() (*Sink, error) {
	return OpenSink("", true)
}

// Close closes the underlying database.
func (s *Sink) Close() error {
	return s.db.Close()
}

// MaxBatchRows reports the batch limit; BadgerDB transactions are
// bounded, so the recommended default applies.
func (s *Sink) MaxBatchRows() int {
	return lineage.DefaultBatchRows
}

func makeRunRowKey(runID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", runRowPrefix, runID))
}

func makeChunkRowKey(runID string, index int) []byte {
	return []byte(fmt.Sprintf("%s:%s:%04d", chunkRowPrefix, runID, index))
}

// InsertRunRows writes run-level rows in one transaction.
func (s *Sink) InsertRunRows(ctx context.Context, rows []lineage.RunRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		for _, row := range rows {
			value, err := json.Marshal(row)
			if err != nil {
				return err
			}
			if err := tx.Set(makeRunRowKey(row.RunID), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertChunkRows writes chunk-level rows in one transaction.
func (s *Sink) InsertChunkRows(ctx context.Context, rows []lineage.ChunkRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		for _, row := range rows {
			value, err := json.Marshal(row)
			if err != nil {
				return err
			}
			if err := tx.Set(makeChunkRowKey(row.RunID, row.ChunkIndex), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRunRow reads back one run-level row.
func (s *Sink) GetRunRow(ctx context.Context, runID string) (*lineage.RunRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var row lineage.RunRow
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRunRowKey(runID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		})
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ChunkRowsForRun reads back all chunk-level rows for one run, in
// index order.
func (s *Sink) ChunkRowsForRun(ctx context.Context, runID string) ([]lineage.ChunkRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []lineage.ChunkRow
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(fmt.Sprintf("%s:%s:", chunkRowPrefix, runID))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var row lineage.ChunkRow
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			})
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
