package clean

import "golang.org/x/text/unicode/norm"

// latinCleaner handles English text: NFC composition plus the common
// clean. Its deep pass is a reserved extension point.
type latinCleaner struct {
	deepThreshold float64
}

func (c *latinCleaner) QuickClean(text string) string {
	return commonClean(norm.NFC.String(text))
}

func (c *latinCleaner) DeepClean(text string) string { return text }

func (c *latinCleaner) Clean(text string, qualityScore float64) Result {
	return runClean(c, c.deepThreshold, text, qualityScore)
}

// mixedCleaner handles bilingual text. It applies no script-specific
// folding; only the safe shared normalization.
type mixedCleaner struct {
	deepThreshold float64
}

func (c *mixedCleaner) QuickClean(text string) string {
	return commonClean(norm.NFC.String(text))
}

func (c *mixedCleaner) DeepClean(text string) string { return text }

func (c *mixedCleaner) Clean(text string, qualityScore float64) Result {
	return runClean(c, c.deepThreshold, text, qualityScore)
}
