// Package vm implements the transactional execution environment of the
// veneer rendering virtual machine.
//
// This package contains:
//   - Scope: the per-invocation symbol table (self, locals, captured blocks)
//   - Transaction: ordered batching of lifecycle and modifier side effects
//   - Environment: the per-render-root state machine owning the transaction
//   - References, keyed iteration, and dynamic-attribute binding strategies
//
// Execution is single-threaded and synchronous. Contract violations
// (scheduling without an active transaction, out-of-range symbol access)
// panic: they indicate interpreter bugs, not bad input.
package vm
