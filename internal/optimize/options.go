package optimize

import "math"

// Format selects the output encoding for optimized images.
type Format int

const (
	// JPEG output. No alpha channel: transparent source regions are
	// flattened onto an opaque white background before encoding.
	JPEG Format = iota

	// WebP output (lossy).
	WebP
)

// MIME returns the MIME type string for the format.
func (f Format) MIME() string {
	if f == WebP {
		return "image/webp"
	}
	return "image/jpeg"
}

// String returns the short format name.
func (f Format) String() string {
	if f == WebP {
		return "webp"
	}
	return "jpeg"
}

// Default values applied for unset Options fields.
const (
	DefaultMaxDimension = 2048
	DefaultMaxBytes     = 6 * 1024 * 1024 // 6 MiB
	DefaultQuality      = 0.85
)

// Quality is clamped to this range on every use, including caller-supplied
// values and values mutated by the search loop.
const (
	minQuality = 0.30
	maxQuality = 0.95
)

// Options configures an optimization call. The zero value of each field
// means "use the default"; fields fall back independently.
type Options struct {
	// MaxDimension caps the longest edge of the output, in pixels.
	// Default 2048.
	MaxDimension int

	// MaxBytes caps the encoded output size. Best-effort: if the search
	// exhausts its attempts the last candidate is returned even when it
	// still exceeds this budget. Default 6 MiB.
	MaxBytes int

	// Format is the output encoding. Default JPEG.
	Format Format

	// Quality is the initial encoder quality target in (0, 1]. Higher
	// values favor larger output and better fidelity. Clamped to
	// [0.30, 0.95]; NaN or zero falls back to the default 0.85.
	Quality float64

	// Sharpen applies a mild unsharp mask after downscaling. Off by
	// default; has no effect on the passthrough path.
	Sharpen bool
}

// withDefaults returns a copy with unset fields replaced by defaults.
func (o Options) withDefaults() Options {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.Quality == 0 || math.IsNaN(o.Quality) {
		o.Quality = DefaultQuality
	}
	return o
}

// clampQuality forces q into the supported range. NaN maps to the default.
func clampQuality(q float64) float64 {
	if math.IsNaN(q) {
		return DefaultQuality
	}
	if q < minQuality {
		return minQuality
	}
	if q > maxQuality {
		return maxQuality
	}
	return q
}
