// Package chroma implements chromakey (green-screen) background detection
// over raw RGBA pixel buffers.
//
// The package identifies the single dominant key color in a frame and
// reports it as an RGB color plus a hue, a confidence score, and the
// fraction of the frame it covers. It does not produce a pixel mask; the
// output is one best-guess color with metrics describing how strongly that
// color dominates.
//
// # Pipeline
//
// Detection combines three strategies:
//
//  1. Full-frame hue histogram analysis with peak region growing
//  2. Border-ring histogram analysis (chromakeys usually touch the frame edge)
//  3. Deterministic k-means clustering in HSV space
//
// Detect runs the full-frame analysis first and returns immediately when
// its confidence clears the configured threshold. Otherwise all candidate
// results are fused and the highest-confidence one wins.
//
// For video, a VideoSession accumulates one ChromakeyResult per frame and
// reduces them to a temporally stable consensus on demand.
//
// # Input Contract
//
// All pixel input is a byte slice interpreted as RGBA, 4 bytes per pixel,
// row-major, top to bottom. The alpha channel is ignored. Buffers that are
// shorter than width*height*4 are tolerated: unreachable pixels are
// skipped, never an error.
//
// # Thread Safety
//
// Detect and the histogram/clustering engines are pure functions of their
// inputs and can be called concurrently on separate buffers. VideoSession
// is not synchronized; concurrent use requires external locking.
//
// # Error Handling
//
// Nothing in this package panics or returns an error on malformed input.
// "No confident detection" is a normal outcome, reported through the
// (ChromakeyResult, bool) comma-ok form.
package chroma
