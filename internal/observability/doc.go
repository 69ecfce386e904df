// Package observability provides the event log, metrics, and alerting for
// growth-plan generation runs: an append-only JSONL event log written by the
// pipeline, a metrics calculator aggregating planning activity from it, and
// an alert engine flagging unhealthy planning patterns.
package observability
