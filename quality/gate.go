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

package quality

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/poiesic/diwan/core"
)

// Default thresholds. Length and the script ratios are floors, the
// repetition ratio is a ceiling.
const (
	DefaultMinLength          = 50
	DefaultMinArabicRatio     = 0.60
	DefaultMinLatinRatio      = 0.50
	DefaultMinUnicodeValid    = 0.95
	DefaultMaxRepetitionRatio = 0.20
)

// Criterion weights for the composite score. Flags carry partial credit
// when they fail, and the sum is capped at 1.0.
var criterionWeights = map[string]float64{
	"length":         0.15,
	"arabic_ratio":   0.35,
	"latin_ratio":    0.35,
	"language_ratio": 0.35,
	"unicode_valid":  0.25,
	"repetition":     0.25,
}

// Flag records the outcome of a single quality criterion.
type Flag struct {
	Name      string  `json:"name"`
	Passed    bool    `json:"passed"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Detail    string  `json:"detail,omitempty"`
}

// Result is the full outcome of a quality check.
type Result struct {
	Passed            bool    `json:"passed"`
	Score             float64 `json:"score"`
	Flags             []Flag  `json:"flags"`
	TextLength        int     `json:"text_length"`
	ArabicRatio       float64 `json:"arabic_ratio"`
	UnicodeValidRatio float64 `json:"unicode_valid_ratio"`
	RepetitionRatio   float64 `json:"repetition_ratio"`
}

// FailedFlags returns the names of criteria that did not pass.
func (r *Result) FailedFlags() []string {
	var names []string
	for _, f := range r.Flags {
		if !f.Passed {
			names = append(names, f.Name)
		}
	}
	return names
}

// Gate evaluates extracted text against the four quality criteria:
// minimum length, dominant-script ratio, unicode validity, and line
// repetition. The script criterion depends on the configured language
// and is skipped entirely for mixed corpora.
type Gate struct {
	language           core.Language
	minLength          int
	minArabicRatio     float64
	minLatinRatio      float64
	minUnicodeValid    float64
	maxRepetitionRatio float64
	logger             *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithMinLength sets the minimum stripped text length.
func WithMinLength(n int) Option {
	return func(g *Gate) { g.minLength = n }
}

// WithMinArabicRatio sets the Arabic script floor used when the
// language is Arabic.
func WithMinArabicRatio(r float64) Option {
	return func(g *Gate) { g.minArabicRatio = r }
}

// WithMinLatinRatio sets the Latin script floor used when the language
// is English.
func WithMinLatinRatio(r float64) Option {
	return func(g *Gate) { g.minLatinRatio = r }
}

// WithMinUnicodeValid sets the unicode validity floor.
func WithMinUnicodeValid(r float64) Option {
	return func(g *Gate) { g.minUnicodeValid = r }
}

// WithMaxRepetitionRatio sets the duplicate line ceiling.
func WithMaxRepetitionRatio(r float64) Option {
	return func(g *Gate) { g.maxRepetitionRatio = r }
}

// WithLogger sets the logger used by the gate.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// NewGate builds a gate for the given language.
func NewGate(lang core.Language, opts ...Option) (*Gate, error) {
	switch lang {
	case core.LanguageArabic, core.LanguageEnglish, core.LanguageMixed:
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedLanguage, lang)
	}

	g := &Gate{
		language:           lang,
		minLength:          DefaultMinLength,
		minArabicRatio:     DefaultMinArabicRatio,
		minLatinRatio:      DefaultMinLatinRatio,
		minUnicodeValid:    DefaultMinUnicodeValid,
		maxRepetitionRatio: DefaultMaxRepetitionRatio,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g, nil
}

// Check evaluates text and returns a Result. Empty input short-circuits
// to a zero score with a single failed length flag.
func (g *Gate) Check(text string) *Result {
	if text == "" {
		return &Result{
			Passed: false,
			Score:  0.0,
			Flags: []Flag{{
				Name:      "length",
				Passed:    false,
				Value:     0,
				Threshold: float64(g.minLength),
				Detail:    "empty input",
			}},
			UnicodeValidRatio: 1.0,
		}
	}

	var flags []Flag

	length := len([]rune(strings.TrimSpace(text)))
	flags = append(flags, Flag{
		Name:      "length",
		Passed:    length >= g.minLength,
		Value:     float64(length),
		Threshold: float64(g.minLength),
	})

	ar := scriptRatio(text, isArabicRune)
	switch g.language {
	case core.LanguageArabic:
		flags = append(flags, Flag{
			Name:      "arabic_ratio",
			Passed:    ar >= g.minArabicRatio,
			Value:     ar,
			Threshold: g.minArabicRatio,
		})
	case core.LanguageEnglish:
		lr := scriptRatio(text, isLatinRune)
		flags = append(flags, Flag{
			Name:      "latin_ratio",
			Passed:    lr >= g.minLatinRatio,
			Value:     lr,
			Threshold: g.minLatinRatio,
		})
	default:
		// Mixed corpora get a passing placeholder so the score keeps
		// the same criterion weights across languages.
		flags = append(flags, Flag{
			Name:      "language_ratio",
			Passed:    true,
			Value:     1.0,
			Threshold: 0.0,
			Detail:    "skipped for mixed language",
		})
	}

	uv := unicodeValidRatio(text)
	flags = append(flags, Flag{
		Name:      "unicode_valid",
		Passed:    uv >= g.minUnicodeValid,
		Value:     uv,
		Threshold: g.minUnicodeValid,
	})

	rr := repetitionRatio(text)
	flags = append(flags, Flag{
		Name:      "repetition",
		Passed:    rr <= g.maxRepetitionRatio,
		Value:     rr,
		Threshold: g.maxRepetitionRatio,
	})

	passed := true
	score := 0.0
	for _, f := range flags {
		if !f.Passed {
			passed = false
		}
		score += criterionWeights[f.Name] * partialCredit(f)
	}
	if score > 1.0 {
		score = 1.0
	}

	return &Result{
		Passed:            passed,
		Score:             score,
		Flags:             flags,
		TextLength:        length,
		ArabicRatio:       ar,
		UnicodeValidRatio: uv,
		RepetitionRatio:   rr,
	}
}

// partialCredit returns the score contribution factor for one flag.
// Passing flags earn full credit. Failing floor criteria earn
// value/threshold; the repetition ceiling inverts that to
// threshold/value so worse repetition always scores lower.
func partialCredit(f Flag) float64 {
	if f.Passed {
		return 1.0
	}
	if f.Name == "repetition" {
		if f.Value <= 0 {
			return 0.0
		}
		return f.Threshold / f.Value
	}
	if f.Threshold <= 0 {
		return 0.0
	}
	credit := f.Value / f.Threshold
	if credit < 0 {
		return 0.0
	}
	return credit
}

// scoringPunct is excluded from script ratio denominators along with
// whitespace and digits.
const scoringPunct = ".,;:!?()[]{}«»\"'"

func isArabicRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0x0750 && r <= 0x077F) ||
		(r >= 0x08A0 && r <= 0x08FF) ||
		(r >= 0xFB50 && r <= 0xFDFF) ||
		(r >= 0xFE70 && r <= 0xFEFF)
}

func isLatinRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 0x00C0 && r <= 0x00FF)
}

// scriptRatio computes the share of script runes among runes that
// carry script signal, skipping whitespace, digits, and neutral
// punctuation.
func scriptRatio(text string, inScript func(rune) bool) float64 {
	total := 0
	matched := 0
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsDigit(r) || strings.ContainsRune(scoringPunct, r) {
			continue
		}
		total++
		if inScript(r) {
			matched++
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(matched) / float64(total)
}

// unicodeValidRatio is the share of runes that are neither known
// mojibake markers nor unassigned code points.
func unicodeValidRatio(text string) float64 {
	if text == "" {
		return 1.0
	}
	total := 0
	bad := 0
	for _, r := range text {
		total++
		if isBadRune(r) {
			bad++
		}
	}
	return 1.0 - float64(bad)/float64(total)
}

func isBadRune(r rune) bool {
	switch r {
	case '�', '\ufeff', 0:
		return true
	}
	// Assigned code points all belong to one of the major categories.
	return !unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C)
}

// repetitionRatio measures duplicate non-blank lines: every occurrence
// of a line beyond its first counts against the total.
func repetitionRatio(text string) float64 {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) <= 1 {
		return 0.0
	}
	counts := make(map[string]int, len(lines))
	for _, line := range lines {
		counts[line]++
	}
	dupes := 0
	for _, c := range counts {
		if c > 1 {
			dupes += c - 1
		}
	}
	return float64(dupes) / float64(len(lines))
}
