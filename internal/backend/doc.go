// Package backend is the HTTP boundary to the fetch-and-transcode service.
//
// Three callers share one base address but keep separate wait bounds:
// Client submits POST /download and classifies every failure into the
// services error taxonomy; Fetcher streams media bytes for one resource
// locator and collapses every failure into an absent result; Prober reads
// GET /health for the advisory status panel. None of them retry.
package backend
