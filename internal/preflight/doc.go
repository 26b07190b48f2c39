// Package preflight provides readiness checks for the backend API and the
// local directories anydl writes to.
//
// The CLI "anydl status" command renders RunAll as a table; "anydl get
// --save" uses CheckOutputDirectory before fetching anything so a doomed save
// fails fast.
package preflight
