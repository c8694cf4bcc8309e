// Package clean provides language-aware text normalization for the
// document pipeline.
//
// Cleaning is two-tiered. The quick pass is cheap and deterministic
// (invisible-character stripping, whitespace and punctuation collapse,
// plus Arabic letter folding or Unicode NFC depending on language) and
// runs on every document. The deep pass runs only when a prior quality
// score falls below a threshold and may rely on an external
// normalization capability; when that capability is missing or fails,
// the deep pass degrades to a no-op with a one-time warning.
package clean
