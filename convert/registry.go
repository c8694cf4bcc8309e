package convert

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/poiesic/diwan/core"
)

// Converter turns one source file into a ConversionResult. Converters
// report failures inside the result rather than returning errors.
type Converter interface {
	SupportedExtensions() []string
	Convert(path string) core.ConversionResult
}

// araFilePattern matches corpus file names ending in -ara1/-ara2
// instead of a real extension (e.g. "0001Test.Book-ara1"); those are
// routed to the markup converter.
var araFilePattern = regexp.MustCompile(`-ara\d+$`)

// Registry dispatches files to converters by extension.
type Registry struct {
	byExt    map[string]Converter
	fallback Converter
	logger   *slog.Logger
}

// NewRegistry creates a registry with the built-in converters
// registered.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byExt:  make(map[string]Converter),
		logger: logger,
	}
	heritage := NewHeritageConverter()
	r.Register(heritage)
	r.Register(NewPlainTextConverter())
	r.fallback = heritage
	return r
}

// Register adds a converter for all of its supported extensions.
// Extensions are matched case-insensitively.
func (r *Registry) Register(c Converter) {
	for _, ext := range c.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = c
	}
}

// SupportedExtensions returns the sorted list of registered extensions.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether path would be picked up by a batch run:
// either its extension is registered or its name follows the
// extensionless corpus convention.
func (r *Registry) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := r.byExt[ext]; ok {
		return true
	}
	return araFilePattern.MatchString(filepath.Base(path))
}

// Convert dispatches path to the converter registered for its
// extension. Unsupported paths yield a failure result.
func (r *Registry) Convert(path string) core.ConversionResult {
	ext := strings.ToLower(filepath.Ext(path))
	if conv, ok := r.byExt[ext]; ok {
		return conv.Convert(path)
	}
	if araFilePattern.MatchString(filepath.Base(path)) {
		return r.fallback.Convert(path)
	}
	r.logger.Warn("no converter for extension", "path", path, "ext", ext)
	return core.ConversionResult{
		Format:     core.FormatUnknown,
		SourcePath: path,
		Errors:     []string{"unsupported file extension: " + ext},
	}
}
