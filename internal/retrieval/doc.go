// Package retrieval orchestrates one download request: local input checks,
// the single submission call, normalization into a Batch, and on-demand
// retrieval of each item's bytes.
//
// A Batch is immutable once returned. Resolve can fetch items concurrently
// but always reports results in ordinal order.
package retrieval
