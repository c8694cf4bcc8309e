package clean

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// Arabic diacritic marks (tashkil and Quranic annotation marks).
var reDiacritics = regexp.MustCompile(
	"[ؗ-ًؚ-ْٰۖ-ۜ" +
		"۟-ۤۧ-۪ۨ-ۭ]")

// Alef variants (madda, hamza above/below, wasla) fold to bare Alef.
var alefFolder = strings.NewReplacer(
	"آ", "ا",
	"أ", "ا",
	"إ", "ا",
	"ٱ", "ا",
)

// Alef Maqsura folds to Yeh, Ta Marbuta to Heh.
var yehTehFolder = strings.NewReplacer(
	"ى", "ي",
	"ة", "ه",
)

type arabicCleaner struct {
	deepThreshold    float64
	removeDiacritics bool
	foldAlef         bool
	foldYehTeh       bool
	normalizer       Normalizer
	available        bool
	logger           *slog.Logger
	warnOnce         sync.Once
}

func newArabicCleaner(o *options) *arabicCleaner {
	return &arabicCleaner{
		deepThreshold:    o.deepThreshold,
		removeDiacritics: o.removeDiacritics,
		foldAlef:         o.foldAlef,
		foldYehTeh:       o.foldYehTeh,
		normalizer:       o.normalizer,
		// Availability is probed once per cleaner, not per call.
		available: o.normalizer.Available(),
		logger:    o.logger,
	}
}

func (c *arabicCleaner) QuickClean(text string) string {
	text = commonClean(text)
	if text == "" {
		return ""
	}
	if c.removeDiacritics {
		text = reDiacritics.ReplaceAllString(text, "")
	}
	if c.foldAlef {
		text = alefFolder.Replace(text)
	}
	if c.foldYehTeh {
		text = yehTehFolder.Replace(text)
	}
	return text
}

// DeepClean applies the external normalization capability. When the
// capability is unavailable or fails, the input is returned unchanged;
// unavailability is warned about once per cleaner.
func (c *arabicCleaner) DeepClean(text string) string {
	if !c.available {
		c.warnOnce.Do(func() {
			c.logger.Warn("deep normalization unavailable; deep clean disabled")
		})
		return text
	}
	out, err := c.normalizer.Normalize(text)
	if err != nil {
		c.logger.Error("deep normalization failed", "err", err)
		return text
	}
	if c.removeDiacritics {
		out = reDiacritics.ReplaceAllString(out, "")
	}
	return out
}

func (c *arabicCleaner) Clean(text string, qualityScore float64) Result {
	return runClean(c, c.deepThreshold, text, qualityScore)
}
