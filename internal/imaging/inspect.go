package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"

	"github.com/gabriel-vasile/mimetype"
	colorful "github.com/lucasb-eyer/go-colorful"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Sampling a bounded pixel grid keeps Inspect cheap on large images while
// remaining exact for anything up to this many pixels per axis.
const maxSamplesPerAxis = 64

// AverageColor is the mean pixel color of an image in two representations.
type AverageColor struct {
	// Hex is the "#RRGGBB" form of the average.
	Hex string `json:"hex"`

	// H, S, L describe the same color in HSL space: hue 0-360,
	// saturation and lightness 0-100.
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Info contains metadata about an encoded image buffer.
type Info struct {
	// Width and Height are the pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the short container name ("png", "jpeg", ...), derived
	// from magic bytes.
	Format string `json:"format"`

	// MIME is the sniffed media type.
	MIME string `json:"mime_type"`

	// HasAlpha indicates the image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// Opaque is true when every sampled pixel is fully opaque. An image
	// can have an alpha channel and still be opaque.
	Opaque bool `json:"opaque"`

	// Bytes is the encoded size of the input buffer.
	Bytes int `json:"bytes"`

	// Average is the mean color over the sampled pixel grid.
	Average AverageColor `json:"average_color"`
}

// Inspect decodes an image buffer and reports its metadata.
//
// The format is detected from magic bytes. Alpha and average-color analysis
// samples a grid of at most 64x64 pixels, so results are exact for small
// images and statistically representative for large ones.
func Inspect(data []byte) (*Info, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	mime := mimetype.Detect(data)

	info := &Info{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: strings.TrimPrefix(mime.Extension(), "."),
		MIME:   mime.String(),
		Bytes:  len(data),
	}
	if info.Format == "" {
		info.Format = "unknown"
	}

	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
	}

	info.Opaque, info.Average = sampleStats(img)
	return info, nil
}

// sampleStats walks a bounded grid over the image, accumulating the average
// color and checking opacity.
func sampleStats(img image.Image) (bool, AverageColor) {
	bounds := img.Bounds()
	stepX := bounds.Dx() / maxSamplesPerAxis
	if stepX < 1 {
		stepX = 1
	}
	stepY := bounds.Dy() / maxSamplesPerAxis
	if stepY < 1 {
		stepY = 1
	}

	var rSum, gSum, bSum float64
	count := 0
	opaque := true

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0xFFFF {
				opaque = false
			}
			rSum += float64(r) / 0xFFFF
			gSum += float64(g) / 0xFFFF
			bSum += float64(b) / 0xFFFF
			count++
		}
	}

	if count == 0 {
		return true, AverageColor{Hex: "#000000"}
	}

	avg := colorful.Color{
		R: rSum / float64(count),
		G: gSum / float64(count),
		B: bSum / float64(count),
	}.Clamped()
	h, s, l := avg.Hsl()

	return opaque, AverageColor{
		Hex: avg.Hex(),
		H:   int(h + 0.5),
		S:   int(s*100 + 0.5),
		L:   int(l*100 + 0.5),
	}
}
