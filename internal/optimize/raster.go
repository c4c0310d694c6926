package optimize

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	// Registered with image.Decode for the universal fallback path.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Raster is a decoded image exposed through a minimal capability surface:
// query the natural dimensions, render into a target canvas of a
// caller-chosen size, and release the underlying resources.
//
// A Raster must be released exactly once after the last read of its pixels,
// on every exit path. Render after Release fails with ErrCanvasUnavailable.
type Raster interface {
	// Width returns the natural pixel width. Always positive.
	Width() int

	// Height returns the natural pixel height. Always positive.
	Height() int

	// Render draws the raster into a canvas of exactly width x height
	// pixels, scaling as needed. The target size may differ from the
	// natural size; this is how scaling happens.
	Render(width, height int) (image.Image, error)

	// Release frees decoder-side resources. Safe to call once; further
	// Render calls fail.
	Release()
}

// Decode turns encoded image bytes into a Raster.
//
// A fast format-specific path handles JPEG, PNG, GIF and WebP, identified by
// magic bytes. Anything else, or a fast-path failure, falls back to the
// universal decoder built on Go's image registry (which additionally covers
// BMP and TIFF). Both paths yield a Raster with an identical contract; the
// caller never learns which one ran.
//
// Fails with ErrDecode when the bytes cannot be interpreted as any
// supported raster format.
func Decode(data []byte) (Raster, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	var (
		img image.Image
		err error
	)
	switch sniffFormat(data) {
	case "jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "png":
		img, err = png.Decode(bytes.NewReader(data))
	case "gif":
		img, err = gif.Decode(bytes.NewReader(data))
	case "webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return decodeFallback(data)
	}
	if err != nil {
		// Signature matched but the body did not; let the universal
		// decoder have a try before giving up.
		return decodeFallback(data)
	}

	return &bitmapRaster{img: img}, nil
}

// decodeFallback is the universal decode path. It keeps a reference to the
// encoded source bytes until Release so that the decoded image, which may
// alias decoder buffers, cannot outlive its backing data.
func decodeFallback(data []byte) (Raster, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &fallbackRaster{img: img, src: data}, nil
}

// sniffFormat identifies the container format from magic bytes. Returns an
// empty string when the signature is not recognized.
func sniffFormat(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "jpeg"
	case len(data) >= 8 && bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "png"
	case len(data) >= 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "gif"
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	}
	return ""
}

// bitmapRaster is the fast-path raster. Rendering uses Lanczos resampling.
type bitmapRaster struct {
	img image.Image
}

func (r *bitmapRaster) Width() int  { return r.img.Bounds().Dx() }
func (r *bitmapRaster) Height() int { return r.img.Bounds().Dy() }

func (r *bitmapRaster) Render(width, height int) (image.Image, error) {
	if r.img == nil {
		return nil, fmt.Errorf("%w: raster released", ErrCanvasUnavailable)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrCanvasUnavailable, width, height)
	}
	return imaging.Resize(r.img, width, height, imaging.Lanczos), nil
}

func (r *bitmapRaster) Release() { r.img = nil }

// fallbackRaster is the universal-path raster. It pins the encoded source
// bytes for the lifetime of the handle; releasing them earlier while a
// render is still pending would leave the render reading a dangling source.
type fallbackRaster struct {
	img image.Image
	src []byte
}

func (r *fallbackRaster) Width() int  { return r.img.Bounds().Dx() }
func (r *fallbackRaster) Height() int { return r.img.Bounds().Dy() }

func (r *fallbackRaster) Render(width, height int) (image.Image, error) {
	if r.img == nil {
		return nil, fmt.Errorf("%w: raster released", ErrCanvasUnavailable)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrCanvasUnavailable, width, height)
	}
	return resize.Resize(uint(width), uint(height), r.img, resize.Lanczos3), nil
}

func (r *fallbackRaster) Release() {
	r.img = nil
	r.src = nil
}
