package clean

import (
	"regexp"
	"strings"
)

var (
	// Zero-width and directional controls, BOM, soft hyphen, and C0
	// controls other than tab/newline.
	reInvisible = regexp.MustCompile(
		"[​-‏‪-‮⁦-⁩\ufeff­" +
			"\x00-\x08\x0b\x0c\x0e-\x1f]")
	reMultiSpaces   = regexp.MustCompile(`[ \t]{2,}`)
	reMultiNewlines = regexp.MustCompile(`\n{3,}`)
)

// terminalPunct is the punctuation set whose runs collapse to one.
const terminalPunct = ".!?،؟؛:…"

// collapseRepeatedPunct reduces runs of three or more identical
// terminal-punctuation runes to a single rune. Runs of two are kept.
// (The standard regexp package has no backreferences, so this is a
// manual scan.)
func collapseRepeatedPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		j := i + 1
		for j < len(runes) && runes[j] == r {
			j++
		}
		runLen := j - i
		if runLen >= 3 && strings.ContainsRune(terminalPunct, r) {
			b.WriteRune(r)
		} else {
			for k := 0; k < runLen; k++ {
				b.WriteRune(r)
			}
		}
		i = j
	}
	return b.String()
}

// commonClean is the deterministic normalization shared by every
// language: strip invisibles, collapse whitespace runs and repeated
// punctuation, trim each line, limit blank runs to one empty line and
// trim the whole text. Lines are trimmed before blank runs are
// collapsed so that a second pass is a no-op.
func commonClean(text string) string {
	if text == "" {
		return ""
	}
	text = reInvisible.ReplaceAllString(text, "")
	text = reMultiSpaces.ReplaceAllString(text, " ")
	text = collapseRepeatedPunct(text)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = reMultiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
