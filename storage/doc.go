// Package storage defines the artifact backend the pipeline reads
// sources from and writes stage outputs to.
package storage
