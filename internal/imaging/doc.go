// Package imaging provides image inspection utilities supporting the
// optimizer front-end.
//
// The package answers metadata questions about an encoded image buffer
// without modifying it: pixel dimensions, container format and MIME type
// (sniffed from magic bytes, never from a file extension), alpha channel
// presence, whether the pixels are fully opaque, and the average color.
//
// All functions are stateless and safe for concurrent use.
package imaging
