package optimize

import "errors"

var (
	// ErrDecode is returned when the input bytes cannot be interpreted as
	// any supported raster format. Not retried; surfaced to the caller.
	ErrDecode = errors.New("optimize: undecodable image data")

	// ErrCanvasUnavailable is returned when a render target of the requested
	// size cannot be created (degenerate dimensions or a released raster).
	// Fatal; not retried.
	ErrCanvasUnavailable = errors.New("optimize: render canvas unavailable")

	// ErrEncode is returned when the encoder fails or produces no output.
	// Fatal; not retried.
	ErrEncode = errors.New("optimize: encoder produced no output")
)
