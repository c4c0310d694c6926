package optimize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Unsharp mask parameters for the optional post-downscale sharpen pass.
const (
	sharpenRadius = 1.0
	sharpenAmount = 0.4
)

// renderFrame renders the raster at the target size and prepares the frame
// for encoding. JPEG has no alpha channel, so for JPEG output the canvas is
// flattened onto opaque white first; otherwise transparent source regions
// would come out black or undefined on re-encode.
func renderFrame(r Raster, width, height int, format Format, sharpen bool) (image.Image, error) {
	frame, err := r.Render(width, height)
	if err != nil {
		return nil, err
	}
	if sharpen {
		frame = effect.UnsharpMask(frame, sharpenRadius, sharpenAmount)
	}
	if format == JPEG {
		frame = flattenWhite(frame)
	}
	return frame, nil
}

// flattenWhite composites img over an opaque white canvas of the same size.
func flattenWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// encodeFrame serializes the frame to the output format at the given
// quality, producing a candidate buffer. Quality is clamped on every use.
func encodeFrame(frame image.Image, format Format, quality float64) ([]byte, error) {
	q := int(math.Round(clampQuality(quality) * 100))

	var buf bytes.Buffer
	var err error
	switch format {
	case WebP:
		err = webp.Encode(&buf, frame, &webp.Options{Quality: float32(q)})
	default:
		err = jpeg.Encode(&buf, frame, &jpeg.Options{Quality: q})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncode
	}
	return buf.Bytes(), nil
}
