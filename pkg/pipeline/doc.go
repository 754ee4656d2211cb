// Package pipeline runs an ordered list of steps over a shared working
// request, accumulating per-step results into an execution context.
//
// Each step receives its own snapshot of the working request and
// returns a new result; only the executor merges step output back into
// the working request. Merging is last-writer-wins: a later step's
// value for a field overwrites an earlier one's. A step error aborts
// the run immediately and surfaces as a *StepError; no partial context
// is returned.
//
// The executor is synchronous and deterministic given deterministic
// steps: running the same steps over the same request twice yields
// identical contexts.
package pipeline
