package clean

import "golang.org/x/text/unicode/norm"

// Normalizer is the optional external deep-normalization capability for
// Arabic text. Implementations may be backed by dependencies that are
// not always present; Available is checked once at cleaner
// construction, never re-probed at runtime.
type Normalizer interface {
	Available() bool
	Normalize(text string) (string, error)
}

// UnicodeNormalizer folds Arabic presentation forms (FB50–FDFF,
// FE70–FEFF) and other compatibility characters to their canonical
// letters via NFKC.
type UnicodeNormalizer struct{}

// NewUnicodeNormalizer creates the built-in deep normalizer.
func NewUnicodeNormalizer() *UnicodeNormalizer {
	return &UnicodeNormalizer{}
}

// Available implements Normalizer.
func (n *UnicodeNormalizer) Available() bool { return true }

// Normalize implements Normalizer.
func (n *UnicodeNormalizer) Normalize(text string) (string, error) {
	return norm.NFKC.String(text), nil
}

// NoopNormalizer models an absent deep-normalization dependency.
type NoopNormalizer struct{}

// NewNoopNormalizer creates a normalizer that reports itself
// unavailable.
func NewNoopNormalizer() *NoopNormalizer {
	return &NoopNormalizer{}
}

// Available implements Normalizer.
func (n *NoopNormalizer) Available() bool { return false }

// Normalize implements Normalizer.
func (n *NoopNormalizer) Normalize(text string) (string, error) {
	return text, nil
}
