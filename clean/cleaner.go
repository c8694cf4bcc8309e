package clean

import (
	"log/slog"

	"github.com/poiesic/diwan/core"
)

// NoScore marks a Clean call that has no prior quality signal; the deep
// pass is never triggered without one.
const NoScore = -1.0

// DefaultDeepThreshold is the quality score below which the deep pass
// runs.
const DefaultDeepThreshold = 0.7

// Result describes one cleaning pass.
type Result struct {
	Text           string
	OriginalLength int
	CleanedLength  int
	QuickApplied   bool
	DeepApplied    bool
	// Stages lists the cleaning stages that ran, in order.
	Stages []string
}

// ReductionRatio is 1 - cleaned/original, or 0 for empty input.
func (r Result) ReductionRatio() float64 {
	if r.OriginalLength == 0 {
		return 0
	}
	return 1.0 - float64(r.CleanedLength)/float64(r.OriginalLength)
}

// Cleaner is a language-aware two-tier text normalizer. QuickClean is
// cheap and always applied; DeepClean is only triggered by a low
// quality score and may depend on an optional external capability.
// Implementations are pure: no side effects beyond logging.
type Cleaner interface {
	QuickClean(text string) string
	DeepClean(text string) string
	// Clean runs QuickClean and, when qualityScore is not NoScore and
	// is below the configured threshold, DeepClean.
	Clean(text string, qualityScore float64) Result
}

// Option configures a Cleaner.
type Option func(*options)

type options struct {
	deepThreshold    float64
	removeDiacritics bool
	foldAlef         bool
	foldYehTeh       bool
	normalizer       Normalizer
	logger           *slog.Logger
}

// WithDeepThreshold overrides the deep-clean trigger threshold.
func WithDeepThreshold(threshold float64) Option {
	return func(o *options) { o.deepThreshold = threshold }
}

// WithDiacriticRemoval toggles Arabic diacritic stripping (default on).
func WithDiacriticRemoval(enabled bool) Option {
	return func(o *options) { o.removeDiacritics = enabled }
}

// WithAlefFolding toggles folding of Alef variants to the bare Alef
// (default on).
func WithAlefFolding(enabled bool) Option {
	return func(o *options) { o.foldAlef = enabled }
}

// WithYehTehFolding toggles Alef-Maqsura→Yeh and Ta-Marbuta→Heh folding
// (default on).
func WithYehTehFolding(enabled bool) Option {
	return func(o *options) { o.foldYehTeh = enabled }
}

// WithNormalizer injects the deep-normalization capability. Pass
// NewNoopNormalizer() to model an unavailable dependency.
func WithNormalizer(n Normalizer) Option {
	return func(o *options) { o.normalizer = n }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates the Cleaner for a language tag.
func New(lang core.Language, opts ...Option) (Cleaner, error) {
	o := &options{
		deepThreshold:    DefaultDeepThreshold,
		removeDiacritics: true,
		foldAlef:         true,
		foldYehTeh:       true,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	switch lang {
	case core.LanguageArabic:
		if o.normalizer == nil {
			o.normalizer = NewUnicodeNormalizer()
		}
		return newArabicCleaner(o), nil
	case core.LanguageEnglish:
		return &latinCleaner{deepThreshold: o.deepThreshold}, nil
	case core.LanguageMixed:
		return &mixedCleaner{deepThreshold: o.deepThreshold}, nil
	}
	return nil, core.ErrUnsupportedLanguage
}

// runClean is the shared Clean orchestration: quick always, deep only
// below the threshold.
func runClean(c Cleaner, threshold float64, text string, qualityScore float64) Result {
	originalLength := len([]rune(text))
	stages := []string{"quick_clean"}
	out := c.QuickClean(text)
	deepApplied := false
	if qualityScore != NoScore && qualityScore < threshold {
		out = c.DeepClean(out)
		deepApplied = true
		stages = append(stages, "deep_clean")
	}
	return Result{
		Text:           out,
		OriginalLength: originalLength,
		CleanedLength:  len([]rune(out)),
		QuickApplied:   true,
		DeepApplied:    deepApplied,
		Stages:         stages,
	}
}
