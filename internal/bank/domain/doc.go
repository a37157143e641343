// Package domain defines the demo bank's entities and the pure rules that
// mutate them.
//
// Every mutation takes a snapshot and returns a new snapshot; nothing here
// touches storage. Callers load a snapshot from the store, apply one of these
// functions, and write the result back in a single compare-and-swap.
//
// Review lifecycles (loans and KYC requests) share one transition table:
//
//	pending -> approved
//	pending -> rejected
//
// approved and rejected are terminal.
package domain
