// Package imagedata handles the opaque image payloads exchanged with callers:
// base64 text, optionally prefixed with "data:<mime>;base64,".
package imagedata

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrEmpty is returned when a payload is blank.
var ErrEmpty = errors.New("image payload is empty")

// Image is a decoded payload.
type Image struct {
	MIMEType string
	Data     []byte
}

// StripPrefix removes everything up to and including the first comma. Raw
// base64 (no comma) is returned unchanged.
func StripPrefix(payload string) string {
	if i := strings.IndexByte(payload, ','); i >= 0 {
		return payload[i+1:]
	}
	return payload
}

// Parse decodes a base64 or data-URL payload. The MIME type comes from the
// data-URL header when present and is sniffed from the bytes otherwise.
func Parse(payload string) (Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Image{}, ErrEmpty
	}

	declared := declaredMIME(payload)
	raw := StripPrefix(payload)

	data, err := decodeBase64(raw)
	if err != nil {
		return Image{}, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}

	mime := declared
	if mime == "" {
		mime = Sniff(data)
	}
	return Image{MIMEType: mime, Data: data}, nil
}

// decodeBase64 accepts standard and URL-safe alphabets, padded or not.
// Browsers occasionally hand over the unpadded or URL-safe variants.
func decodeBase64(raw string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err == nil {
		return data, nil
	}
	unpadded := strings.TrimRight(raw, "=")
	if data, rawErr := base64.RawStdEncoding.DecodeString(unpadded); rawErr == nil {
		return data, nil
	}
	if data, urlErr := base64.RawURLEncoding.DecodeString(unpadded); urlErr == nil {
		return data, nil
	}
	return nil, err
}

// Sniff detects the MIME type of raw image bytes.
func Sniff(data []byte) string {
	m := mimetype.Detect(data)
	return strings.SplitN(m.String(), ";", 2)[0]
}

// declaredMIME returns the MIME type named in a "data:<mime>;base64," header.
func declaredMIME(payload string) string {
	if !strings.HasPrefix(payload, "data:") {
		return ""
	}
	header, _, found := strings.Cut(payload, ",")
	if !found {
		return ""
	}
	mime, _, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	return mime
}

// Base64 returns the standard base64 encoding of the image bytes.
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL returns the image as a "data:<mime>;base64,<data>" string.
func (img Image) DataURL() string {
	mime := img.MIMEType
	if mime == "" {
		mime = Sniff(img.Data)
	}
	return "data:" + mime + ";base64," + img.Base64()
}

// IsZero reports whether the image carries no bytes.
func (img Image) IsZero() bool {
	return len(img.Data) == 0
}

// Extension returns a file extension (with dot) suitable for the MIME type.
func (img Image) Extension() string {
	switch img.MIMEType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if ext := mimetype.Lookup(img.MIMEType); ext != nil {
		return ext.Extension()
	}
	return ".bin"
}
