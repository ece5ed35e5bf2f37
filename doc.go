// Package typematch checks arbitrary runtime values against declarative type
// descriptors and reports precise, ranked diagnostics on failure.
//
// - Descriptor trees (interfaces, unions, tuples, enums, ...) mirror static
//   type definitions; suites map type names to descriptors and resolve
//   forward/recursive references lazily at checker-compile time.
// - Checkers are compiled once per (descriptor, suite) pair, are immutable
//   and safe for concurrent use; validation contexts are per-call.
// - The fast pass tracks only pass/fail; a second, detail-collecting pass
//   runs only when a failure must be reported.
//
// Design policy:
// - Keep the public API and data model in the root package; engine internals
//   live under internal/.
// - Place builders under dsl/, value/suite decoding under source/, and the
//   JSON Schema projection under jsonschema/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	checkers, err := typematch.CreateCheckers(suite)
//	if err := checkers["ICacheItem"].Check(value); err != nil { ... }
//	ok := checkers["ICacheItem"].StrictTest(value)
package typematch
