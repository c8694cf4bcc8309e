// Package lineage defines the analytics rows the pipeline emits for
// every run and the sink interface that receives them. Sinks are
// best-effort: the orchestrator logs and swallows insert failures so
// lineage never affects a run's own outcome.
package lineage
