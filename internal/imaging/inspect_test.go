package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int, c color.Color) []byte {
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

func TestInspect_PNG(t *testing.T) {
	data := encodePNG(t, 120, 90, color.RGBA{255, 0, 0, 255})

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if info.Width != 120 || info.Height != 90 {
		t.Errorf("dimensions: got %dx%d, want 120x90", info.Width, info.Height)
	}
	if info.MIME != "image/png" {
		t.Errorf("MIME: got %s, want image/png", info.MIME)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if !info.HasAlpha {
		t.Error("PNG with RGBA pixels should report an alpha channel")
	}
	if !info.Opaque {
		t.Error("fully opaque image reported as non-opaque")
	}
	if info.Bytes != len(data) {
		t.Errorf("Bytes: got %d, want %d", info.Bytes, len(data))
	}
	if info.Average.Hex != "#ff0000" {
		t.Errorf("average color: got %s, want #ff0000", info.Average.Hex)
	}
	if info.Average.H != 0 || info.Average.S != 100 || info.Average.L != 50 {
		t.Errorf("average HSL: got %d/%d/%d, want 0/100/50",
			info.Average.H, info.Average.S, info.Average.L)
	}
}

func TestInspect_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	info, err := Inspect(buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.MIME != "image/jpeg" {
		t.Errorf("MIME: got %s, want image/jpeg", info.MIME)
	}
	if info.HasAlpha {
		t.Error("JPEG should not report an alpha channel")
	}
	if !info.Opaque {
		t.Error("JPEG is always opaque")
	}
}

func TestInspect_Transparency(t *testing.T) {
	data := encodePNG(t, 20, 20, color.RGBA{0, 0, 0, 0})

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Opaque {
		t.Error("fully transparent image reported as opaque")
	}
}

func TestInspect_InvalidData(t *testing.T) {
	if _, err := Inspect([]byte("not an image")); err == nil {
		t.Error("Inspect should fail for invalid image data")
	}
	if _, err := Inspect(nil); err == nil {
		t.Error("Inspect should fail for empty input")
	}
}
