package imagedata

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// SupportedExtensions maps accepted reference image extensions to MIME types.
var SupportedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// LoadFile reads a reference image from disk and downscales it so neither
// side exceeds maxDimension (0 disables resizing).
func LoadFile(path string, maxDimension int) (Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := SupportedExtensions[ext]
	if !ok {
		return Image{}, fmt.Errorf("unsupported image extension: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}

	return Downscale(Image{MIMEType: mime, Data: data}, maxDimension)
}

// Downscale shrinks JPEG and PNG images whose longest side exceeds
// maxDimension, preserving aspect ratio. Other formats and images already
// within bounds are returned untouched.
func Downscale(img Image, maxDimension int) (Image, error) {
	if maxDimension <= 0 {
		return img, nil
	}

	var (
		src image.Image
		err error
	)
	switch img.MIMEType {
	case "image/jpeg":
		src, err = jpeg.Decode(bytes.NewReader(img.Data))
	case "image/png":
		src, err = png.Decode(bytes.NewReader(img.Data))
	default:
		return img, nil
	}
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	origWidth, origHeight := bounds.Dx(), bounds.Dy()
	if origWidth <= maxDimension && origHeight <= maxDimension {
		return img, nil
	}

	newWidth, newHeight := scaledDimensions(origWidth, origHeight, maxDimension)
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if img.MIMEType == "image/png" {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return Image{}, fmt.Errorf("failed to encode resized image: %w", err)
	}

	log.Debug().
		Int("orig_width", origWidth).
		Int("orig_height", origHeight).
		Int("new_width", newWidth).
		Int("new_height", newHeight).
		Int("orig_bytes", len(img.Data)).
		Int("new_bytes", buf.Len()).
		Msg("Reference image downscaled")

	return Image{MIMEType: img.MIMEType, Data: buf.Bytes()}, nil
}

// scaledDimensions fits width x height inside a maxDimension square.
func scaledDimensions(width, height, maxDimension int) (int, int) {
	if width >= height {
		h := height * maxDimension / width
		if h < 1 {
			h = 1
		}
		return maxDimension, h
	}
	w := width * maxDimension / height
	if w < 1 {
		w = 1
	}
	return w, maxDimension
}
