// Package chunk cuts cleaned documents into overlapping word windows
// sized for embedding. Cuts prefer paragraph breaks and sentence-final
// punctuation, and undersized fragments merge into their predecessor.
package chunk
