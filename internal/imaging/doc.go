// Package imaging bridges image files and the raw RGBA frames the chroma
// engine consumes.
//
// It provides a thread-safe cache of decoded images, conversion of any
// standard image.Image into a flat RGBA byte buffer, region extraction,
// and optional downscaling of oversized frames before analysis.
//
// # Thread Safety
//
// FrameCache is safe for concurrent use. Frame conversion functions are
// stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Files that do not exist or cannot be decoded
//   - Invalid region specifications (x1 >= x2 or y1 >= y2)
//
// Frame conversion itself cannot fail: every image.Image has a well
// defined RGBA rendering.
package imaging
