package optimize

import (
	"fmt"
	"math"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// Search loop tuning. The loop is an explicit state machine over two mutable
// parameters (scale, quality) with a hard attempt cap, so termination is
// trivially bounded.
const (
	// maxAttempts caps the (scale, quality) search.
	maxAttempts = 6

	// qualityKnee: while quality sits above this, rejected attempts reduce
	// quality; at or below it they shrink resolution instead.
	qualityKnee = 0.65

	// qualityStep is subtracted from quality on a quality retry.
	qualityStep = 0.1

	// qualityRetryFloor is the lowest quality a retry may reach.
	qualityRetryFloor = 0.5

	// scaleStep multiplies the scale factor on a resolution retry.
	scaleStep = 0.85

	// minLongestSide is the hard resolution floor. Once the target's
	// longest side is at or below it, the loop stops shrinking and accepts
	// the last candidate.
	minLongestSide = 512
)

// Buffer is an encoded image plus its declared media type. The optimizer
// only reads it; ownership stays with the caller.
type Buffer struct {
	// Data is the encoded image.
	Data []byte

	// MIME is the declared media type. May be empty, in which case the
	// type is sniffed from magic bytes where needed.
	MIME string
}

// Optimize produces an image satisfying opts.MaxDimension and, best-effort,
// opts.MaxBytes, preserving as much visual quality as possible.
//
// If the input already satisfies both constraints the original bytes are
// returned unchanged with Optimized set to false. Otherwise a bounded
// search re-encodes the image at decreasing (quality, scale) pairs and the
// first candidate within the byte budget wins. Exhausting the search is not
// an error: the last candidate is returned with Optimized set to true even
// if it still exceeds the budget.
//
// Errors are limited to ErrDecode, ErrCanvasUnavailable and ErrEncode; the
// byte budget alone never causes a failure.
func Optimize(buf Buffer, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	raster, err := Decode(buf.Data)
	if err != nil {
		return nil, err
	}
	defer raster.Release()

	width := raster.Width()
	height := raster.Height()
	longest := width
	if height > longest {
		longest = height
	}

	scale := 1.0
	if longest > opts.MaxDimension {
		scale = float64(opts.MaxDimension) / float64(longest)
	}

	needsResize := scale < 1
	needsReencode := len(buf.Data) > opts.MaxBytes
	if !needsResize && !needsReencode {
		return &Result{
			Data:          buf.Data,
			Width:         width,
			Height:        height,
			MIME:          sourceMIME(buf),
			OriginalBytes: len(buf.Data),
			OutputBytes:   len(buf.Data),
			Optimized:     false,
		}, nil
	}

	quality := clampQuality(opts.Quality)

	var (
		candidate []byte
		candW     int
		candH     int
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		targetW := targetSide(width, scale)
		targetH := targetSide(height, scale)

		frame, err := renderFrame(raster, targetW, targetH, opts.Format, opts.Sharpen)
		if err != nil {
			return nil, err
		}
		encoded, err := encodeFrame(frame, opts.Format, quality)
		if err != nil {
			return nil, err
		}
		candidate, candW, candH = encoded, targetW, targetH

		// Greedy first-fit: the first candidate under budget wins.
		if len(encoded) <= opts.MaxBytes {
			break
		}

		// Quality is the first-line lever; resolution the second.
		if quality > qualityKnee {
			quality = clampQuality(math.Max(qualityRetryFloor, quality-qualityStep))
			continue
		}

		// Never shrink below the resolution floor; keep what we have.
		targetLongest := targetW
		if targetH > targetLongest {
			targetLongest = targetH
		}
		if targetLongest <= minLongestSide {
			break
		}
		scale *= scaleStep
	}

	return &Result{
		Data:          candidate,
		Width:         candW,
		Height:        candH,
		MIME:          opts.Format.MIME(),
		OriginalBytes: len(buf.Data),
		OutputBytes:   len(candidate),
		Optimized:     true,
	}, nil
}

// OptimizeBytes optimizes a raw encoded buffer; the media type of a
// passthrough result is sniffed from magic bytes.
func OptimizeBytes(data []byte, opts Options) (*Result, error) {
	return Optimize(Buffer{Data: data}, opts)
}

// OptimizeDataURI decodes a base64 data URI and optimizes its payload. The
// URI's media type header becomes the buffer's declared type.
func OptimizeDataURI(uri string, opts Options) (*Result, error) {
	buf, err := ParseDataURI(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Optimize(buf, opts)
}

// OptimizeFile reads an image file and optimizes its contents.
func OptimizeFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return Optimize(Buffer{Data: data}, opts)
}

// targetSide scales a natural dimension, flooring at one pixel so extreme
// scale-downs cannot produce a degenerate zero-size render.
func targetSide(natural int, scale float64) int {
	side := int(math.Round(float64(natural) * scale))
	if side < 1 {
		side = 1
	}
	return side
}

// sourceMIME resolves the media type reported for a passthrough result:
// the declared type when present, otherwise a magic-byte sniff (which
// degrades to the generic application/octet-stream).
func sourceMIME(buf Buffer) string {
	if buf.MIME != "" {
		return buf.MIME
	}
	return mimetype.Detect(buf.Data).String()
}
