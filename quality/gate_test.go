package quality

import (
	"strings"
	"testing"

	"github.com/poiesic/diwan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGate_UnsupportedLanguage(t *testing.T) {
	_, err := NewGate(core.Language("de"))
	require.ErrorIs(t, err, core.ErrUnsupportedLanguage)
}

func TestCheck_Empty(t *testing.T) {
	gate, err := NewGate(core.LanguageArabic)
	require.NoError(t, err)

	res := gate.Check("")
	assert.False(t, res.Passed)
	assert.Zero(t, res.Score)
	require.Len(t, res.Flags, 1)
	assert.Equal(t, "length", res.Flags[0].Name)
	assert.Equal(t, []string{"length"}, res.FailedFlags())
}

func TestCheck_GoodArabicText(t *testing.T) {
	gate, err := NewGate(core.LanguageArabic)
	require.NoError(t, err)

	var lines []string
	for i := 0; i < 5; i++ {
		lines = append(lines, strings.Repeat("كتاب ", 10)+string(rune('ا'+i)))
	}
	res := gate.Check(strings.Join(lines, "\n"))

	assert.True(t, res.Passed)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
	assert.Empty(t, res.FailedFlags())
	assert.Greater(t, res.ArabicRatio, 0.9)
	assert.InDelta(t, 1.0, res.UnicodeValidRatio, 1e-9)
	assert.Zero(t, res.RepetitionRatio)
}

func TestCheck_ShortArabicPartialCredit(t *testing.T) {
	gate, err := NewGate(core.LanguageArabic)
	require.NoError(t, err)

	// 40 runes after trim: fails only the length floor, earning
	// partial credit 40/50 on its 0.15 weight.
	text := strings.Repeat("كتابكتاب", 5)
	require.Equal(t, 40, len([]rune(text)))

	res := gate.Check(text)
	assert.False(t, res.Passed)
	assert.Equal(t, []string{"length"}, res.FailedFlags())
	assert.InDelta(t, 0.15*0.8+0.35+0.25+0.25, res.Score, 1e-9)
}

func TestCheck_LatinUnderArabicGate(t *testing.T) {
	gate, err := NewGate(core.LanguageArabic)
	require.NoError(t, err)

	res := gate.Check(strings.Repeat("english prose without arabic letters ", 3))
	assert.False(t, res.Passed)
	assert.Contains(t, res.FailedFlags(), "arabic_ratio")
	assert.Zero(t, res.ArabicRatio)
}

func TestCheck_EnglishGate(t *testing.T) {
	gate, err := NewGate(core.LanguageEnglish)
	require.NoError(t, err)

	res := gate.Check(strings.Repeat("a perfectly ordinary sentence of latin letters ", 3))
	assert.True(t, res.Passed)

	res = gate.Check(strings.Repeat("نص عربي بالكامل بلا حروف لاتينيه اطلاقا ", 3))
	assert.False(t, res.Passed)
	assert.Contains(t, res.FailedFlags(), "latin_ratio")
}

func TestCheck_MixedSkipsScriptCriterion(t *testing.T) {
	gate, err := NewGate(core.LanguageMixed)
	require.NoError(t, err)

	res := gate.Check(strings.Repeat("mixed text نص مختلط ", 5))
	assert.True(t, res.Passed)

	var found bool
	for _, f := range res.Flags {
		if f.Name == "language_ratio" {
			found = true
			assert.True(t, f.Passed)
		}
	}
	assert.True(t, found, "mixed gate should emit a placeholder language flag")
}

func TestCheck_RepetitionCeiling(t *testing.T) {
	gate, err := NewGate(core.LanguageArabic)
	require.NoError(t, err)

	line := strings.Repeat("سطر مكرر تماما ", 4)
	text := strings.Repeat(line+"\n", 10)

	res := gate.Check(text)
	assert.False(t, res.Passed)
	assert.Contains(t, res.FailedFlags(), "repetition")
	assert.InDelta(t, 0.9, res.RepetitionRatio, 1e-9)
}

func TestCheck_RepetitionInvertedCredit(t *testing.T) {
	// Worse repetition must yield a strictly lower score.
	gate, err := NewGate(core.LanguageMixed, WithMaxRepetitionRatio(0.10))
	require.NoError(t, err)

	mild := gate.Check(strings.Repeat("aaaa bbbb cccc\n", 3) + distinctLines(7))
	severe := gate.Check(strings.Repeat("aaaa bbbb cccc\n", 9) + distinctLines(1))

	require.Contains(t, mild.FailedFlags(), "repetition")
	require.Contains(t, severe.FailedFlags(), "repetition")
	assert.Greater(t, mild.Score, severe.Score)
}

func TestCheck_UnicodeValidity(t *testing.T) {
	gate, err := NewGate(core.LanguageMixed)
	require.NoError(t, err)

	text := strings.Repeat("�", 30) + strings.Repeat("sound text here ", 4)
	res := gate.Check(text)
	assert.Contains(t, res.FailedFlags(), "unicode_valid")
	assert.Less(t, res.UnicodeValidRatio, 0.95)
}

func TestRepetitionRatio(t *testing.T) {
	assert.Zero(t, repetitionRatio(""))
	assert.Zero(t, repetitionRatio("single line"))
	assert.Zero(t, repetitionRatio("one\ntwo\nthree"))
	// 2 duplicate occurrences beyond first across 4 lines.
	assert.InDelta(t, 0.5, repetitionRatio("x\nx\nx\ny"), 1e-9)
	// Blank lines are ignored, surrounding space is trimmed: one
	// duplicate occurrence across three non-blank lines.
	assert.InDelta(t, 1.0/3.0, repetitionRatio("  x  \n\n x\n\n y"), 1e-9)
}

func TestScriptRatio_NeutralCharsExcluded(t *testing.T) {
	// Digits, punctuation, and whitespace never count against the
	// script ratio.
	assert.InDelta(t, 1.0, scriptRatio("كتاب 123 .,;: «»", isArabicRune), 1e-9)
	assert.Zero(t, scriptRatio("123 .,;:", isArabicRune))
}

func distinctLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("unique line number ")
		b.WriteRune(rune('a' + i))
		b.WriteByte('\n')
	}
	return b.String()
}
