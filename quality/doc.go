// Package quality implements the document quality gate. Text is scored
// against four criteria (length, dominant script, unicode validity, and
// line repetition) and a weighted composite score in [0, 1] decides
// whether a document continues through the pipeline.
package quality
