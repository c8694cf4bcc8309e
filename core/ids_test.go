package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "ascii", text: "hello world"},
		{name: "empty", text: ""},
		{name: "arabic", text: "بسم الله الرحمن الرحيم"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := ContentHash(tt.text)
			h2 := ContentHash(tt.text)
			assert.Equal(t, h1, h2, "hash must be deterministic")
			assert.Len(t, h1, 16)
		})
	}
}

func TestContentHash_Distinct(t *testing.T) {
	assert.NotEqual(t, ContentHash("a"), ContentHash("b"))
}

func TestContentHash_KnownValue(t *testing.T) {
	// sha256("abc") = ba7816bf8f01cfea...
	assert.Equal(t, "ba7816bf8f01cfea", ContentHash("abc"))
}

func TestNewRunID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRunID()
		require.Len(t, id, 12)
		require.NotContains(t, id, "-")
		require.False(t, seen[id], "run ids must not repeat")
		seen[id] = true
	}
}

func TestParseLanguage(t *testing.T) {
	for _, tag := range []string{"ar", "en", "mixed"} {
		lang, err := ParseLanguage(tag)
		require.NoError(t, err)
		assert.Equal(t, Language(tag), lang)
	}

	_, err := ParseLanguage("fr")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}
