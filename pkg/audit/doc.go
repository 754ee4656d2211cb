// Package audit defines the immutable, durable record of every control
// plane decision and the storage contract for persisting it.
//
// # Records
//
// Each audit record captures one pipeline invocation: a unique record
// id, a content hash of the original (pre-sanitization) request, the
// ordered list of steps or gate markers invoked, the full embedded
// policy decision including the sanitized request, the latency, and the
// terminal status. Records are append-only and never mutated after
// write.
//
// The embedded sanitized request is the artifact that makes replay
// possible: a past execution can be re-run from the log alone, without
// re-deriving redactions against a possibly evolved policy evaluator.
//
// # Storage backends
//
// The Store interface is implemented by the backends in the storage
// subpackage:
//   - jsonl: newline-delimited JSON file, the normative durable format
//   - sqlite: embedded database for higher-volume deployments
//   - memory: in-process map, intended for tests
//
// Lookup is a forward scan from the start of the log, skipping entries
// that fail to parse, so a partial trailing write never poisons the
// read path. No secondary index is maintained; correctness is preferred
// over lookup cost at expected volumes.
package audit
