package convert

import (
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/poiesic/diwan/core"
)

// Line grammar of the heritage markup:
//
//	######OpenITI#              file header
//	#META# key :: value         metadata block
//	#META#Header#End#           end of metadata
//	### |PARATEXT|              paratext section marker
//	### | N Title               section/chapter header
//	# (N) text                  numbered text (verses, hadith)
//	# text                      regular text line
//	~~continuation              line continuation
//	PageV00P000                 page marker
//	msNNN                       manuscript marker (end of line)
var (
	rePageMarker    = regexp.MustCompile(`^\s*PageV\d+P\d+\s*(?:ms\d+)?\s*$`)
	rePageInline    = regexp.MustCompile(`\s*PageV\d+P\d+\s*(?:ms\d+)?`)
	reMSMarker      = regexp.MustCompile(`\s+ms\d+\s*$`)
	reSectionHeader = regexp.MustCompile(`^###\s*\|`)
	reSectionTitled = regexp.MustCompile(`^###\s*\|\s*(\d+)\s+(.*)`)
	reMetaLine      = regexp.MustCompile(`^#META#\s+(.+?)\s*::\s*(.*)`)
	reTextLine      = regexp.MustCompile(`^#\s*(.*)`)
	reNumberedText  = regexp.MustCompile(`^\((\d+)\)\s*(.*)`)
	reContinuation  = regexp.MustCompile(`^~~(.*)`)
	reManyNewlines  = regexp.MustCompile(`\n{3,}`)
)

const (
	magicHeader    = "######OpenITI"
	metaMarker     = "#META#"
	headerEndLine  = "#META#Header#End#"
	placeholderVal = "NODATA"
)

// Metadata holds the canonical fields extracted from the markup header.
type Metadata struct {
	BookURI     string
	AuthorName  string
	AuthorAKA   string
	AuthorBorn  string
	AuthorDied  string
	BookTitle   string
	BookSubject string
	BookVolumes string
	Editor      string
	Publisher   string
	LibURL      string
	// Raw keeps every non-placeholder header pair as written.
	Raw map[string]string
}

// Map returns the canonical fields as a string map, dropping empty and
// placeholder values.
func (m *Metadata) Map() map[string]string {
	fields := map[string]string{
		"book_uri":     m.BookURI,
		"author_name":  m.AuthorName,
		"author_aka":   m.AuthorAKA,
		"author_born":  m.AuthorBorn,
		"author_died":  m.AuthorDied,
		"book_title":   m.BookTitle,
		"book_subject": m.BookSubject,
		"book_volumes": m.BookVolumes,
		"editor":       m.Editor,
		"publisher":    m.Publisher,
		"lib_url":      m.LibURL,
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != "" && v != placeholderVal {
			out[k] = v
		}
	}
	return out
}

// metaRule maps a header key to a canonical field. Rules are checked in
// order; the first matching rule wins. Substring matches run against
// the normalized key (lower-cased, punctuation stripped) so decorated
// corpus keys like "00#BOOK#URI######" still hit "bookuri". The 019
// exclusion keeps operating on the raw key as written.
type metaRule struct {
	match func(rawKey, normKey string) bool
	apply func(m *Metadata, value string)
}

var metaRules = []metaRule{
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "bookuri") },
		apply: func(m *Metadata, v string) { m.BookURI = strings.TrimSpace(strings.TrimLeft(v, "#")) },
	},
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "authorname") },
		apply: func(m *Metadata, v string) { m.AuthorName = v },
	},
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "authoraka") },
		apply: func(m *Metadata, v string) { m.AuthorAKA = v },
	},
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "authorborn") },
		apply: func(m *Metadata, v string) { m.AuthorBorn = v },
	},
	{
		match: func(rk, nk string) bool {
			return strings.Contains(nk, "authordied") && !strings.Contains(rk, "019")
		},
		apply: func(m *Metadata, v string) { m.AuthorDied = v },
	},
	{
		match: func(_, nk string) bool {
			return strings.Contains(nk, "booktitle") &&
				!strings.Contains(nk, "sub") && !strings.Contains(nk, "alt")
		},
		apply: func(m *Metadata, v string) { m.BookTitle = v },
	},
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "booksubj") },
		apply: func(m *Metadata, v string) { m.BookSubject = v },
	},
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "bookvols") },
		apply: func(m *Metadata, v string) { m.BookVolumes = v },
	},
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "ededitor") },
		apply: func(m *Metadata, v string) { m.Editor = v },
	},
	{
		match: func(_, nk string) bool { return strings.Contains(nk, "edpublisher") },
		apply: func(m *Metadata, v string) { m.Publisher = v },
	},
	{
		match: func(_, nk string) bool {
			return strings.Contains(nk, "liburl") &&
				!strings.Contains(nk, "file") && !strings.Contains(nk, "extra")
		},
		apply: func(m *Metadata, v string) { m.LibURL = v },
	},
}

// normalizeMetaKey lowercases a header key and drops everything but
// letters and digits, collapsing corpus decorations ("00#BOOK#URI######",
// "020.BookTITLE") into the canonical substring the rules expect.
func normalizeMetaKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func assignMetaField(m *Metadata, key, value string) {
	norm := normalizeMetaKey(key)
	for _, rule := range metaRules {
		if rule.match(key, norm) {
			rule.apply(m, value)
			return
		}
	}
}

// ParseDocument runs the two-state line grammar over a decoded markup
// document and returns the clean body text plus the header metadata.
func ParseDocument(text string) (string, *Metadata) {
	meta := &Metadata{Raw: make(map[string]string)}
	var textLines []string
	inHeader := true
	currentLine := ""

	flush := func() {
		if currentLine != "" {
			textLines = append(textLines, strings.TrimSpace(currentLine))
			currentLine = ""
		}
	}

	for _, line := range strings.Split(text, "\n") {
		rawLine := strings.TrimRight(line, " \t\r\n")

		if inHeader {
			trimmed := strings.TrimSpace(rawLine)
			if trimmed == headerEndLine {
				inHeader = false
				continue
			}
			if strings.HasPrefix(trimmed, magicHeader) {
				continue
			}
			if match := reMetaLine.FindStringSubmatch(rawLine); match != nil {
				key := strings.TrimSpace(match[1])
				value := strings.TrimSpace(match[2])
				if value != "" && value != placeholderVal {
					meta.Raw[key] = value
					assignMetaField(meta, key, value)
				}
			}
			// Anything else (blank lines etc.) stays in the header.
			continue
		}

		// Standalone page markers carry no text.
		if rePageMarker.MatchString(rawLine) {
			continue
		}

		// Strip inline page and manuscript markers.
		cleaned := rePageInline.ReplaceAllString(rawLine, "")
		cleaned = reMSMarker.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimRight(cleaned, " \t\r\n")

		// Section headers: ### |PARATEXT| or ### | N Title
		if reSectionHeader.MatchString(cleaned) {
			flush()
			if titled := reSectionTitled.FindStringSubmatch(cleaned); titled != nil {
				if title := strings.TrimSpace(titled[2]); title != "" {
					textLines = append(textLines, "", title, "")
				}
			}
			continue
		}

		// Continuation line: ~~text
		if cont := reContinuation.FindStringSubmatch(cleaned); cont != nil {
			currentLine += " " + strings.TrimSpace(cont[1])
			continue
		}

		// Text line: # text or # (N) text
		if tm := reTextLine.FindStringSubmatch(cleaned); tm != nil {
			flush()
			content := strings.TrimSpace(tm[1])
			if content == "" {
				// An empty # line is a paragraph break.
				textLines = append(textLines, "")
				continue
			}
			if num := reNumberedText.FindStringSubmatch(content); num != nil {
				content = strings.TrimSpace(num[2])
			}
			currentLine = content
			continue
		}

		// Any other non-empty, non-tag line joins the pending line.
		stripped := strings.TrimSpace(cleaned)
		if stripped != "" && !strings.HasPrefix(stripped, "#") {
			if currentLine != "" {
				currentLine += " " + stripped
			} else {
				currentLine = stripped
			}
		}
	}
	flush()

	result := strings.Join(textLines, "\n")
	result = reManyNewlines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result), meta
}

// HeritageConverter converts markup files. It also accepts extensionless
// corpus files named with the -ara1/-ara2 convention; files without the
// magic header pass through as plain text with a warning.
type HeritageConverter struct{}

// NewHeritageConverter creates a converter for the heritage markup.
func NewHeritageConverter() *HeritageConverter {
	return &HeritageConverter{}
}

// SupportedExtensions implements Converter.
func (c *HeritageConverter) SupportedExtensions() []string {
	return []string{".markdown"}
}

// Convert implements Converter. It never returns an error; failures are
// reported inside the result.
func (c *HeritageConverter) Convert(path string) core.ConversionResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		return core.ConversionResult{
			Format:     core.FormatUnknown,
			SourcePath: path,
			Errors:     []string{"failed to read file: " + err.Error()},
		}
	}

	text, enc, ok := DecodeBytes(raw)
	if !ok {
		return core.ConversionResult{
			Format:     core.FormatUnknown,
			SourcePath: path,
			Errors:     []string{"no encoding matched"},
		}
	}

	if !hasMagicHeader(text) {
		// Plain text file with a corpus extension; pass through.
		return core.ConversionResult{
			Success:    true,
			Text:       text,
			Format:     core.FormatText,
			SourcePath: path,
			Encoding:   enc,
			Warnings:   []string{"no markup header found; treated as plain text"},
		}
	}

	clean, meta := ParseDocument(text)
	if strings.TrimSpace(clean) == "" {
		return core.ConversionResult{
			Format:     core.FormatMarkdown,
			SourcePath: path,
			Errors:     []string{"empty text after parsing"},
		}
	}

	return core.ConversionResult{
		Success:    true,
		Text:       clean,
		Format:     core.FormatMarkdown,
		SourcePath: path,
		Encoding:   enc,
		Metadata:   meta.Map(),
		RawMeta:    meta.Raw,
	}
}

// hasMagicHeader reports whether the decoded text looks like the
// heritage markup: the magic line within the first 200 characters or a
// metadata tag within the first 500.
func hasMagicHeader(text string) bool {
	return strings.Contains(runePrefix(text, 200), magicHeader) ||
		strings.Contains(runePrefix(text, 500), metaMarker)
}

func runePrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
