// Package imaging normalizes uploaded product photos: it verifies the
// format from the actual bytes, caps the dimensions, and re-encodes
// everything as JPEG so the stored blobs stay small and uniform.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension caps the longer side of a stored photo.
	MaxDimension = 1024
	// JPEGQuality is the re-encode quality.
	JPEGQuality = 85
)

// Photo is a normalized image ready for storage.
type Photo struct {
	Data []byte
	MIME string
}

// Process decodes an uploaded image, rejects anything that is not JPEG or
// PNG, shrinks it to fit MaxDimension, and re-encodes it as JPEG.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// The format comes from the decoder, not from any client-supplied
	// header, so a renamed file cannot smuggle another type in.
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("unsupported image format %q (JPEG or PNG required)", format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fit(img, MaxDimension), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// fit scales img down so that neither side exceeds limit, keeping the
// aspect ratio. Images already within the limit pass through untouched.
func fit(img image.Image, limit int) image.Image {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w <= limit && h <= limit {
		return img
	}

	scale := float64(limit) / float64(w)
	if h > w {
		scale = float64(limit) / float64(h)
	}
	nw := max(int(float64(w)*scale), 1)
	nh := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}
