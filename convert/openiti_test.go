package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/diwan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDoc = `######OpenITI#
#META# 00#BOOK#URI###### :: 0001Test.Book
#META#Header#End#
### | 1 Title
# Hello world PageV01P001
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDocument_Minimal(t *testing.T) {
	body, meta := ParseDocument(minimalDoc)

	assert.Equal(t, "0001Test.Book", meta.BookURI)
	assert.Contains(t, body, "Title")
	assert.Contains(t, body, "Hello world")
	assert.NotContains(t, body, "PageV01P001")
}

func TestParseDocument_HeaderFields(t *testing.T) {
	doc := `######OpenITI#
#META# 010.AuthorNAME :: Ibn Khaldun
#META# 010.AuthorAKA :: NODATA
#META# 010.AuthorDIED :: 0808
#META# 010.AuthorDIED019 :: 0799
#META# 020.BookTITLE :: Muqaddima
#META# 020.BookTITLESub :: The Introduction
#META# 021.BookSUBJ :: history
#META# 040.EdEDITOR :: Quatremere
#META# 041.EdPUBLISHER ::
#META# 077.LibURL :: https://example.org/book
#META# 077.LibURLFILE :: https://example.org/file.zip
#META#Header#End#
# Body text here long enough.
`
	_, meta := ParseDocument(doc)

	assert.Equal(t, "Ibn Khaldun", meta.AuthorName)
	assert.Empty(t, meta.AuthorAKA, "placeholder values are skipped")
	assert.Equal(t, "0808", meta.AuthorDied)
	assert.Equal(t, "Muqaddima", meta.BookTitle, "subtitle key must not overwrite the title")
	assert.Equal(t, "history", meta.BookSubject)
	assert.Equal(t, "Quatremere", meta.Editor)
	assert.Empty(t, meta.Publisher, "empty values are skipped")
	assert.Equal(t, "https://example.org/book", meta.LibURL)

	m := meta.Map()
	assert.Equal(t, "Muqaddima", m["book_title"])
	_, hasAKA := m["author_aka"]
	assert.False(t, hasAKA)
}

func TestNormalizeMetaKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00#BOOK#URI######", "00bookuri"},
		{"010.AuthorNAME", "010authorname"},
		{"020.BookTITLESub", "020booktitlesub"},
		{"077.LibURL", "077liburl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeMetaKey(tt.in), tt.in)
	}
}

func TestAssignMetaField_DecoratedKeys(t *testing.T) {
	m := &Metadata{Raw: make(map[string]string)}
	assignMetaField(m, "00#BOOK#URI######", "0001Test.Book")
	assignMetaField(m, "020.BookTITLE", "Muqaddima")
	assert.Equal(t, "0001Test.Book", m.BookURI)
	assert.Equal(t, "Muqaddima", m.BookTitle)
}

func TestParseDocument_AuthorDied019Excluded(t *testing.T) {
	doc := `######OpenITI#
#META# 010.AuthorDIED019 :: 0700
#META#Header#End#
# Body.
`
	_, meta := ParseDocument(doc)
	assert.Empty(t, meta.AuthorDied, "keys containing 019 never set the died field")
	assert.Equal(t, "0700", meta.Raw["010.AuthorDIED019"], "raw meta keeps every pair")
}

func TestParseDocument_Body(t *testing.T) {
	doc := `######OpenITI#
#META# 00#BOOK#URI###### :: 0001Test.Book
#META#Header#End#
PageV01P001
# First sentence of the text
~~continues on a second line
#
# (12) numbered verse content ms012
### |PARATEXT|
# After the paratext marker PageV01P002 more words
`
	body, _ := ParseDocument(doc)

	assert.Contains(t, body, "First sentence of the text continues on a second line")
	assert.Contains(t, body, "numbered verse content")
	assert.NotContains(t, body, "(12)")
	assert.NotContains(t, body, "ms012")
	assert.NotContains(t, body, "PARATEXT")
	assert.NotContains(t, body, "PageV01P002")
	// Inline marker stripping consumes the surrounding whitespace, so
	// the neighbouring words join.
	assert.Contains(t, body, "After the paratext markermore words")
}

func TestParseDocument_SectionTitleSurroundedByBlanks(t *testing.T) {
	doc := `######OpenITI#
#META# 00#BOOK#URI###### :: 0001Test.Book
#META#Header#End#
# before
### | 2 Chapter Two
# after
`
	body, _ := ParseDocument(doc)
	assert.Contains(t, body, "before\n\nChapter Two\n\nafter")
}

func TestParseDocument_CollapsesBlankRuns(t *testing.T) {
	doc := `######OpenITI#
#META# 00#BOOK#URI###### :: 0001Test.Book
#META#Header#End#
# one
#
#
#
# two
`
	body, _ := ParseDocument(doc)
	assert.Equal(t, "one\n\ntwo", body)
}

func TestHeritageConverter_Convert(t *testing.T) {
	conv := NewHeritageConverter()
	path := writeTemp(t, "0001Test.Book-ara1.markdown", minimalDoc)

	res := conv.Convert(path)
	require.True(t, res.Success)
	assert.Equal(t, core.FormatMarkdown, res.Format)
	assert.Equal(t, "utf-8", res.Encoding)
	assert.Equal(t, "0001Test.Book", res.Metadata["book_uri"])
	assert.Empty(t, res.Errors)
}

func TestHeritageConverter_PlainTextFallback(t *testing.T) {
	conv := NewHeritageConverter()
	path := writeTemp(t, "notes-ara1", "just ordinary text without any header\n")

	res := conv.Convert(path)
	require.True(t, res.Success)
	assert.Equal(t, core.FormatText, res.Format)
	require.Len(t, res.Warnings, 1)
	assert.Empty(t, res.Errors)
	assert.Contains(t, res.Text, "ordinary text")
}

func TestHeritageConverter_EmptyAfterParse(t *testing.T) {
	conv := NewHeritageConverter()
	doc := "######OpenITI#\n#META# key :: value\n#META#Header#End#\nPageV01P001\n"
	path := writeTemp(t, "empty.markdown", doc)

	res := conv.Convert(path)
	require.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "empty text")
}

func TestHeritageConverter_MissingFile(t *testing.T) {
	conv := NewHeritageConverter()
	res := conv.Convert(filepath.Join(t.TempDir(), "nope.markdown"))
	require.False(t, res.Success)
	assert.Equal(t, core.FormatUnknown, res.Format)
}
