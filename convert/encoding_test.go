package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		wantText string
		wantEnc  string
		wantOK   bool
	}{
		{
			name:     "plain ascii",
			raw:      []byte("hello"),
			wantText: "hello",
			wantEnc:  "utf-8",
			wantOK:   true,
		},
		{
			name:     "utf-8 arabic",
			raw:      []byte("كتاب"),
			wantText: "كتاب",
			wantEnc:  "utf-8",
			wantOK:   true,
		},
		{
			// 0xC7 0xE1 0xDF 0xCA 0xC7 0xC8 is "الكتاب"-ish in cp1256
			// and is not valid UTF-8.
			name:     "cp1256 bytes",
			raw:      []byte{0xC7, 0xE1, 0xDF, 0xCA, 0xC7, 0xC8},
			wantText: "الكتاب",
			wantEnc:  "cp1256",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, ok := DecodeBytes(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantEnc, enc)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestDecodeBytes_BOMStillDecodesAsUTF8(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	text, enc, ok := DecodeBytes(raw)
	require.True(t, ok)
	// A BOM is itself valid UTF-8, so plain utf-8 wins the ordered
	// detection; the BOM rune survives until the cleaner strips it.
	assert.Equal(t, "utf-8", enc)
	assert.Equal(t, "\ufeffhello", text)
}

func TestDecodeBytes_OrderIsFixed(t *testing.T) {
	// Bytes valid in both cp1256 and iso-8859-6 must report cp1256.
	text, enc, ok := DecodeBytes([]byte{0xC7, 0xC8})
	require.True(t, ok)
	assert.Equal(t, "cp1256", enc)
	assert.Equal(t, "اب", text)
}
