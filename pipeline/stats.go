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

import "sync/atomic"

// Stats holds process-lifetime counters. All methods are safe for
// concurrent use.
type Stats struct {
	processed   atomic.Int64
	succeeded   atomic.Int64
	rejected    atomic.Int64
	errored     atomic.Int64
	totalChunks atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters with derived
// rates. Rates divide by at least one so a fresh pipeline reports
// zeros rather than NaN.
type StatsSnapshot struct {
	FilesProcessed int64   `json:"files_processed"`
	FilesSuccess   int64   `json:"files_success"`
	FilesRejected  int64   `json:"files_rejected"`
	FilesError     int64   `json:"files_error"`
	TotalChunks    int64   `json:"total_chunks"`
	SuccessRate    float64 `json:"success_rate"`
	RejectionRate  float64 `json:"rejection_rate"`
	ErrorRate      float64 `json:"error_rate"`
}

// Snapshot returns the current counter values and rates.
func (s *Stats) Snapshot() StatsSnapshot {
	processed := s.processed.Load()
	denom := processed
	if denom < 1 {
		denom = 1
	}
	return StatsSnapshot{
		FilesProcessed: processed,
		FilesSuccess:   s.succeeded.Load(),
		FilesRejected:  s.rejected.Load(),
		FilesError:     s.errored.Load(),
		TotalChunks:    s.totalChunks.Load(),
		SuccessRate:    float64(s.succeeded.Load()) / float64(denom),
		RejectionRate:  float64(s.rejected.Load()) / float64(denom),
		ErrorRate:      float64(s.errored.Load()) / float64(denom),
	}
}
