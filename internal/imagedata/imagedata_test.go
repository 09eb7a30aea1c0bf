package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data:image/png;base64,AAAA", "AAAA"},
		{"AAAA", "AAAA"},
		{"data:image/png;base64,AA,BB", "AA,BB"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripPrefix(tt.in); got != tt.want {
			t.Errorf("StripPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_DataURL(t *testing.T) {
	raw := testPNG(t, 4, 4)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	img, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("expected image/png, got %q", img.MIMEType)
	}
	if !bytes.Equal(img.Data, raw) {
		t.Error("decoded bytes do not match")
	}
}

func TestParse_RawBase64Sniffed(t *testing.T) {
	raw := testPNG(t, 2, 2)

	img, err := Parse(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("expected sniffed image/png, got %q", img.MIMEType)
	}
}

func TestParse_Base64Variants(t *testing.T) {
	// Bytes chosen so the standard and URL-safe alphabets differ.
	data := []byte{0xfb, 0xff, 0xfe, 0x01}
	tests := []struct {
		name    string
		payload string
	}{
		{"standard", base64.StdEncoding.EncodeToString(data)},
		{"unpadded", base64.RawStdEncoding.EncodeToString(data)},
		{"url-safe padded", base64.URLEncoding.EncodeToString(data)},
		{"url-safe unpadded", base64.RawURLEncoding.EncodeToString(data)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Parse(tt.payload)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.payload, err)
			}
			if !bytes.Equal(img.Data, data) {
				t.Errorf("Parse(%q) = %x, want %x", tt.payload, img.Data, data)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse("   "); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := Parse("data:image/png;base64,***"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestDataURL_RoundTrip(t *testing.T) {
	raw := testPNG(t, 3, 3)
	img := Image{MIMEType: "image/png", Data: raw}

	back, err := Parse(img.DataURL())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.MIMEType != "image/png" || !bytes.Equal(back.Data, raw) {
		t.Error("data URL did not round-trip")
	}
}

func TestExtension(t *testing.T) {
	if ext := (Image{MIMEType: "image/jpeg"}).Extension(); ext != ".jpg" {
		t.Errorf("expected .jpg, got %q", ext)
	}
	if ext := (Image{MIMEType: "image/png"}).Extension(); ext != ".png" {
		t.Errorf("expected .png, got %q", ext)
	}
}

func TestScaledDimensions(t *testing.T) {
	tests := []struct {
		w, h, max     int
		wantW, wantH int
	}{
		{4000, 3000, 1000, 1000, 750},
		{3000, 4000, 1000, 750, 1000},
		{2000, 2000, 500, 500, 500},
		{5000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h := scaledDimensions(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("scaledDimensions(%d,%d,%d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestLoadFile_Downscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.png")
	if err := os.WriteFile(path, testPNG(t, 64, 32), 0o600); err != nil {
		t.Fatal(err)
	}

	img, err := LoadFile(path, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("result is not a PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("expected 16x8, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestLoadFile_SmallImageUntouched(t *testing.T) {
	raw := testPNG(t, 8, 8)
	path := filepath.Join(t.TempDir(), "model.png")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	img, err := LoadFile(path, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(img.Data, raw) {
		t.Error("expected original bytes for an image within bounds")
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	if _, err := LoadFile("clip.mp4", 0); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
