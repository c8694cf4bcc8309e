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
	"fmt"
	"io"
	"sync"
	"time"
)

// progressMeter writes a carriage-returned progress line every `every`
// completed documents. The clock starts at construction; workers call
// mark once per finished file.
type progressMeter struct {
	mu      sync.Mutex
	writer  io.Writer
	total   int
	done    int
	every   int
	pending int
	start   time.Time
}

func newProgressMeter(writer io.Writer, total, every int) *progressMeter {
	if every < 1 {
		every = 1
	}
	return &progressMeter{
		writer: writer,
		total:  total,
		every:  every,
		start:  time.Now(),
	}
}

// mark records one completed document, emitting a progress line when
// the report interval is crossed.
func (p *progressMeter) mark() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done < p.total {
		p.done++
	}
	p.pending++
	if p.pending >= p.every {
		p.pending = 0
		p.report()
	}
}

// finish forces the final 100% line and a trailing newline.
func (p *progressMeter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// report must be called with the lock held.
func (p *progressMeter) report() {
	rate := float64(p.done) / time.Since(p.start).Seconds()
	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}
	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f documents/s",
		p.done, p.total, percentage, rate)
}
