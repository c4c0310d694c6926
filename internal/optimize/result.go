package optimize

import "encoding/base64"

// Result is the normalized output record of an optimization call.
type Result struct {
	// Data is the final encoded image. When Optimized is false this is
	// the caller's original buffer, byte for byte.
	Data []byte `json:"-"`

	// Width and Height are the pixel dimensions of Data.
	Width  int `json:"width"`
	Height int `json:"height"`

	// MIME is the media type of Data. For passthrough results this is the
	// input's declared or sniffed type; otherwise it matches the requested
	// output format.
	MIME string `json:"mime_type"`

	// OriginalBytes and OutputBytes are the encoded sizes before and
	// after optimization. Equal on passthrough.
	OriginalBytes int `json:"original_bytes"`
	OutputBytes   int `json:"output_bytes"`

	// Optimized reports whether any transform was applied. False means
	// pure passthrough: no re-encoding occurred and dimensions are the
	// natural dimensions of the input.
	Optimized bool `json:"optimized"`
}

// DataURI serializes the result as a self-describing base64 data URI of the
// form "data:<mime>;base64,<payload>".
func (r *Result) DataURI() string {
	return "data:" + r.MIME + base64Marker + base64.StdEncoding.EncodeToString(r.Data)
}
