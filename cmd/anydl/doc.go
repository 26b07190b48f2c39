// Package main hosts the anydl CLI entrypoint and command graph.
//
// The Cobra-based command tree submits URLs to the backend, renders the
// normalized batch, optionally saves each item to disk, and exposes health,
// history, and configuration helpers. Configuration and logging are resolved
// once per invocation by commandContext so subcommands only deal with
// presentation.
package main
