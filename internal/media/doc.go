// Package media turns the backend's loosely typed download result into an
// ordered list of presentation items.
//
// The data mapping comes in two shapes discriminated by its "type" key: a
// single video or a playlist with parallel filename and locator sequences.
// DecodePayload reads either shape defensively into a Payload, and Items
// flattens that payload into Items with contiguous zero-based ordinals.
// Nothing here performs I/O or returns errors; bad locators are left for the
// fetcher to discover.
package media
