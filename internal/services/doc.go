// Package services defines shared utilities consumed by the backend client,
// the retrieval orchestrator, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp submission request IDs and batch ordinals for
//     logging.
//   - The submission error taxonomy: sentinel markers, the SubmissionError
//     type that carries backend status and detail, and helpers that turn an
//     error into a history outcome name or a user-facing message.
//
// Media fetch failures never pass through here; they collapse to an absent
// result at the fetcher boundary.
package services
