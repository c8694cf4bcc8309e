package convert

import (
	"os"
	"strings"

	"github.com/poiesic/diwan/core"
)

// PlainTextConverter handles .txt sources: decode, nothing else.
type PlainTextConverter struct{}

// NewPlainTextConverter creates a converter for plain text files.
func NewPlainTextConverter() *PlainTextConverter {
	return &PlainTextConverter{}
}

// SupportedExtensions implements Converter.
func (c *PlainTextConverter) SupportedExtensions() []string {
	return []string{".txt"}
}

// Convert implements Converter.
func (c *PlainTextConverter) Convert(path string) core.ConversionResult {
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

	if strings.TrimSpace(text) == "" {
		return core.ConversionResult{
			Format:     core.FormatText,
			SourcePath: path,
			Errors:     []string{"empty text after parsing"},
		}
	}

	return core.ConversionResult{
		Success:    true,
		Text:       text,
		Format:     core.FormatText,
		SourcePath: path,
		Encoding:   enc,
	}
}
