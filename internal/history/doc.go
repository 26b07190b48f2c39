// Package history keeps a bounded SQLite log of submission attempts: the
// submitted URL, the outcome kind, and the shape of the returned batch.
//
// Schema changes ship as numbered files under migrations/ and are applied in
// lexical order inside a single transaction when the store opens.
package history
