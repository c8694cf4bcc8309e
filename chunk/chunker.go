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

package chunk

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/diwan/core"
)

const (
	DefaultChunkSize    = 300
	DefaultOverlap      = 30
	DefaultMinChunkSize = 20

	// paragraphSentinel marks a paragraph break inside the token
	// stream. It never counts as a word.
	paragraphSentinel = "\n\n"
)

var reParagraphBoundary = regexp.MustCompile(`\n\s*\n`)

// sentenceEnders are the terminal marks a chunk prefers to break after.
const sentenceEnders = ".!?؟،؛"

// Chunk is one window of words cut from a document.
type Chunk struct {
	Text        string            `json:"text"`
	Index       int               `json:"chunk_index"`
	WordCount   int               `json:"word_count"`
	CharCount   int               `json:"char_count"`
	StartWord   int               `json:"start_word"`
	EndWord     int               `json:"end_word"`
	ContentHash string            `json:"content_hash"`
	HasOverlap  bool              `json:"has_overlap"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Result holds all chunks cut from one document.
type Result struct {
	Chunks      []Chunk `json:"chunks"`
	TotalChunks int     `json:"total_chunks"`
	TotalWords  int     `json:"total_words"`
	SourcePath  string  `json:"source_path"`
	SourceHash  string  `json:"source_hash"`
}

// Chunker splits text into overlapping word windows, preferring to cut
// at paragraph breaks or sentence-final punctuation in the trailing
// third of each window. Windows smaller than the minimum are merged
// into the previous chunk.
type Chunker struct {
	chunkSize    int
	overlap      int
	minChunkSize int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(n int) Option {
	return func(c *Chunker) { c.chunkSize = n }
}

// WithOverlap sets how many words consecutive windows share.
func WithOverlap(n int) Option {
	return func(c *Chunker) { c.overlap = n }
}

// WithMinChunkSize sets the smallest word count a chunk may stand
// alone with.
func WithMinChunkSize(n int) Option {
	return func(c *Chunker) { c.minChunkSize = n }
}

// NewChunker builds a chunker. The overlap must be strictly smaller
// than the chunk size or every window would repeat the previous one.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize:    DefaultChunkSize,
		overlap:      DefaultOverlap,
		minChunkSize: DefaultMinChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.chunkSize {
		return nil, ErrOverlapTooLarge
	}
	return c, nil
}

// ChunkSize reports the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap reports the configured window overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into windows. Empty or blank input yields a result
// with no chunks. The metadata map, when given, is copied onto every
// chunk.
func (c *Chunker) Chunk(text, sourcePath string, metadata map[string]string) *Result {
	if strings.TrimSpace(text) == "" {
		return &Result{SourcePath: sourcePath}
	}

	words := tokenize(text)
	sourceHash := core.ContentHash(text)

	var chunks []Chunk
	wordPos := 0
	chunkIndex := 0
	for wordPos < len(words) {
		endPos := wordPos + c.chunkSize
		if endPos > len(words) {
			endPos = len(words)
		}
		window := words[wordPos:endPos]
		if endPos < len(words) {
			if adj := findBoundary(window); adj > 0 {
				window = window[:adj]
				endPos = wordPos + adj
			}
		}

		text := wordsToText(window)
		wc := 0
		for _, w := range window {
			if w != paragraphSentinel {
				wc++
			}
		}

		// Fragments below the minimum fold into the previous chunk.
		// This includes a short tail at the end of the document.
		if wc < c.minChunkSize && chunkIndex > 0 && len(chunks) > 0 {
			prev := &chunks[len(chunks)-1]
			merged := prev.Text + paragraphSentinel + text
			prev.Text = merged
			prev.WordCount += wc
			prev.CharCount = len([]rune(merged))
			prev.EndWord = endPos
			prev.ContentHash = core.ContentHash(merged)
			wordPos = endPos
			continue
		}

		hasOverlap := false
		if chunkIndex > 0 && len(chunks) > 0 && wordPos < chunks[len(chunks)-1].EndWord {
			hasOverlap = true
		}
		chunks = append(chunks, Chunk{
			Text:        text,
			Index:       chunkIndex,
			WordCount:   wc,
			CharCount:   len([]rune(text)),
			StartWord:   wordPos,
			EndWord:     endPos,
			ContentHash: core.ContentHash(text),
			HasOverlap:  hasOverlap,
			Metadata:    copyMeta(metadata),
		})
		chunkIndex++

		// A window that reached the stream end is the final chunk.
		if endPos == len(words) {
			break
		}
		advance := len(window) - c.overlap
		if advance < 1 {
			advance = 1
		}
		wordPos += advance
	}

	res := &Result{
		Chunks:     chunks,
		SourcePath: sourcePath,
		SourceHash: sourceHash,
	}
	res.TotalChunks = len(chunks)
	for _, ch := range chunks {
		res.TotalWords += ch.WordCount
	}
	return res
}

// tokenize splits text on whitespace into words, inserting a paragraph
// sentinel between paragraphs so windows can prefer those breaks.
func tokenize(text string) []string {
	paragraphs := reParagraphBoundary.Split(strings.TrimSpace(text), -1)
	var words []string
	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		words = append(words, strings.Fields(para)...)
		words = append(words, paragraphSentinel)
	}
	if len(words) > 0 && words[len(words)-1] == paragraphSentinel {
		words = words[:len(words)-1]
	}
	return words
}

// findBoundary scans the trailing third of a window backward for a
// paragraph sentinel or a word ending in sentence punctuation. It
// returns the cut position, or 0 when no boundary exists.
func findBoundary(words []string) int {
	start := len(words) * 2 / 3
	if start < 1 {
		start = 1
	}
	for i := len(words) - 1; i >= start; i-- {
		if words[i] == paragraphSentinel {
			return i
		}
		if w := words[i]; w != "" {
			last, _ := utf8.DecodeLastRuneInString(w)
			if strings.ContainsRune(sentenceEnders, last) {
				return i + 1
			}
		}
	}
	return 0
}

// wordsToText joins words with single spaces, rendering paragraph
// sentinels as blank lines.
func wordsToText(words []string) string {
	var b strings.Builder
	prevSentinel := true
	for _, w := range words {
		if w == paragraphSentinel {
			b.WriteString(paragraphSentinel)
			prevSentinel = true
			continue
		}
		if !prevSentinel {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		prevSentinel = false
	}
	return strings.TrimSpace(b.String())
}

func copyMeta(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
