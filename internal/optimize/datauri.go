package optimize

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// base64Marker separates the media type header from the payload in a
// base64 data URI.
const base64Marker = ";base64,"

// EstimateDataURIBytes returns the decoded byte length of a base64 data URI
// payload without decoding it. The second return value is false when the
// string does not contain the base64 marker.
//
// The estimate is exact: it matches the byte count a real base64 decode
// would produce for any valid input, including empty payloads (0) and both
// single- and double-padded endings.
func EstimateDataURIBytes(uri string) (int, bool) {
	idx := strings.Index(uri, base64Marker)
	if idx < 0 {
		return 0, false
	}
	payload := uri[idx+len(base64Marker):]

	pad := 0
	switch {
	case strings.HasSuffix(payload, "=="):
		pad = 2
	case strings.HasSuffix(payload, "="):
		pad = 1
	}

	n := len(payload)*3/4 - pad
	if n < 0 {
		n = 0
	}
	return n, true
}

// ParseDataURI decodes a "data:<mime>;base64,<payload>" URI into a Buffer
// carrying the payload bytes and the declared media type.
func ParseDataURI(uri string) (Buffer, error) {
	if !strings.HasPrefix(uri, "data:") {
		return Buffer{}, fmt.Errorf("not a data URI")
	}
	idx := strings.Index(uri, base64Marker)
	if idx < 0 {
		return Buffer{}, fmt.Errorf("data URI is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(uri[idx+len(base64Marker):])
	if err != nil {
		return Buffer{}, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return Buffer{Data: data, MIME: uri[len("data:"):idx]}, nil
}
