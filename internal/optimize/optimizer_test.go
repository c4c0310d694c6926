package optimize

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/chai2010/webp"
)

// noisePNG encodes a deterministic noise image. Noise defeats both PNG and
// JPEG compression, which makes byte budgets easy to violate on purpose.
func noisePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = byte(rng.Intn(256))
	}
	// Keep alpha opaque so JPEG flattening does not alter the content.
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode noise image: %v", err)
	}
	return buf.Bytes()
}

func solidPNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func TestOptimize_Passthrough(t *testing.T) {
	data := solidPNG(t, 100, 80, color.RGBA{10, 20, 30, 255})

	res, err := Optimize(Buffer{Data: data}, Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if res.Optimized {
		t.Error("expected passthrough, got optimized result")
	}
	if !bytes.Equal(res.Data, data) {
		t.Error("passthrough result is not byte-identical to input")
	}
	if res.Width != 100 || res.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", res.Width, res.Height)
	}
	if res.OriginalBytes != len(data) || res.OutputBytes != len(data) {
		t.Errorf("byte counts: got %d/%d, want %d/%d",
			res.OriginalBytes, res.OutputBytes, len(data), len(data))
	}
	if res.MIME != "image/png" {
		t.Errorf("MIME: got %s, want image/png (sniffed)", res.MIME)
	}
}

func TestOptimize_Passthrough_DeclaredMIME(t *testing.T) {
	data := solidPNG(t, 10, 10, color.White)

	res, err := Optimize(Buffer{Data: data, MIME: "image/x-custom"}, Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.MIME != "image/x-custom" {
		t.Errorf("MIME: got %s, want declared image/x-custom", res.MIME)
	}
}

func TestOptimize_ResizeOnly(t *testing.T) {
	data := solidPNG(t, 300, 200, color.RGBA{80, 120, 160, 255})

	res, err := Optimize(Buffer{Data: data}, Options{MaxDimension: 100})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if !res.Optimized {
		t.Fatal("expected optimized result")
	}
	// Longest side capped at 100; the short side scales proportionally.
	if res.Width != 100 || res.Height != 67 {
		t.Errorf("dimensions: got %dx%d, want 100x67", res.Width, res.Height)
	}
	if res.MIME != "image/jpeg" {
		t.Errorf("MIME: got %s, want image/jpeg", res.MIME)
	}
	if res.OutputBytes != len(res.Data) {
		t.Errorf("OutputBytes %d does not match data length %d", res.OutputBytes, len(res.Data))
	}

	// A solid color compresses easily; the first candidate should fit.
	if res.OutputBytes > DefaultMaxBytes {
		t.Errorf("output %d exceeds default budget", res.OutputBytes)
	}
}

func TestOptimize_BudgetMet(t *testing.T) {
	// Roughly the 4000x3000/10MB scenario at a size tests can afford:
	// noise makes the PNG large and the natural size exceeds MaxDimension.
	data := noisePNG(t, 1300, 1000)

	res, err := Optimize(Buffer{Data: data}, Options{MaxDimension: 640, MaxBytes: 800_000})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if !res.Optimized {
		t.Fatal("expected optimized result")
	}
	longest := res.Width
	if res.Height > longest {
		longest = res.Height
	}
	if longest > 640 {
		t.Errorf("longest side %d exceeds MaxDimension", longest)
	}
	if res.OutputBytes > 800_000 {
		t.Errorf("output %d exceeds budget", res.OutputBytes)
	}
}

func TestOptimize_QualityBeforeScale(t *testing.T) {
	// The image sits below the 512px resolution floor, so an impossible
	// byte budget can only trigger quality retries; once quality reaches
	// the knee the loop stops instead of shrinking, and the last candidate
	// is returned best-effort at the natural size.
	data := noisePNG(t, 400, 300)

	res, err := Optimize(Buffer{Data: data}, Options{MaxBytes: 1})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if !res.Optimized {
		t.Fatal("expected optimized result")
	}
	if res.Width != 400 || res.Height != 300 {
		t.Errorf("dimensions changed below the resolution floor: got %dx%d", res.Width, res.Height)
	}
	if res.OutputBytes <= 1 {
		t.Error("budget was impossible; output should exceed it")
	}
}

func TestOptimize_ScaleReduction(t *testing.T) {
	// Above the floor, an impossible budget walks quality down to the knee
	// and then shrinks resolution for the remaining attempts.
	data := noisePNG(t, 1200, 900)

	res, err := Optimize(Buffer{Data: data}, Options{MaxBytes: 1})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if !res.Optimized {
		t.Fatal("expected optimized result")
	}
	if res.Width >= 1200 {
		t.Errorf("width %d was not reduced", res.Width)
	}
	if res.Width <= 512/2 {
		t.Errorf("width %d shrank past the floor", res.Width)
	}
	// Aspect ratio is preserved through the scale steps.
	ratio := float64(res.Width) / float64(res.Height)
	if ratio < 1.30 || ratio > 1.37 {
		t.Errorf("aspect ratio drifted: %dx%d", res.Width, res.Height)
	}
}

func TestOptimize_TransparentToJPEG(t *testing.T) {
	// Fully transparent source re-encoded to JPEG must come out white,
	// not black.
	data := solidPNG(t, 64, 64, color.RGBA{0, 0, 0, 0})

	res, err := Optimize(Buffer{Data: data}, Options{MaxBytes: 1})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !res.Optimized {
		t.Fatal("expected optimized result")
	}

	decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
	r, g, b, _ := decoded.At(32, 32).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent region not flattened to white: got rgb(%d,%d,%d)",
			r>>8, g>>8, b>>8)
	}
}

func TestOptimize_WebPOutput(t *testing.T) {
	data := solidPNG(t, 300, 200, color.RGBA{90, 90, 200, 255})

	res, err := Optimize(Buffer{Data: data}, Options{MaxDimension: 100, Format: WebP})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if res.MIME != "image/webp" {
		t.Errorf("MIME: got %s, want image/webp", res.MIME)
	}
	decoded, err := webp.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not valid WebP: %v", err)
	}
	if decoded.Bounds().Dx() != 100 || decoded.Bounds().Dy() != 67 {
		t.Errorf("decoded size: got %dx%d, want 100x67",
			decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestOptimize_Sharpen(t *testing.T) {
	data := noisePNG(t, 300, 300)

	res, err := Optimize(Buffer{Data: data}, Options{MaxDimension: 150, Sharpen: true})
	if err != nil {
		t.Fatalf("Optimize with sharpen failed: %v", err)
	}
	if !res.Optimized || res.Width != 150 || res.Height != 150 {
		t.Errorf("unexpected result: optimized=%v %dx%d", res.Optimized, res.Width, res.Height)
	}
}

func TestOptimize_DecodeFailure(t *testing.T) {
	_, err := Optimize(Buffer{Data: []byte("garbage bytes")}, Options{})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
}

func TestOptimizeDataURI(t *testing.T) {
	data := solidPNG(t, 30, 30, color.White)
	res, err := OptimizeDataURI((&Result{Data: data, MIME: "image/png"}).DataURI(), Options{})
	if err != nil {
		t.Fatalf("OptimizeDataURI failed: %v", err)
	}
	if res.Optimized {
		t.Error("small input should pass through")
	}
	if res.MIME != "image/png" {
		t.Errorf("MIME: got %s, want declared image/png", res.MIME)
	}
}

func TestOptimizeDataURI_Invalid(t *testing.T) {
	_, err := OptimizeDataURI("data:image/png,notbase64", Options{})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
}

func TestOptimizeBytes(t *testing.T) {
	data := solidPNG(t, 20, 20, color.Black)
	res, err := OptimizeBytes(data, Options{})
	if err != nil {
		t.Fatalf("OptimizeBytes failed: %v", err)
	}
	if res.Optimized {
		t.Error("small input should pass through")
	}
}
