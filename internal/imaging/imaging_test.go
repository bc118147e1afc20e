package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{40, 120, 200, 255})
		}
	}
	return img
}

func encodeJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h), nil)
	return buf.Bytes()
}

func encodePNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h))
	return buf.Bytes()
}

func decodedSize(t *testing.T, p *Photo) (int, int) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestThumbnailFormats(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"jpeg", encodeJPEG(64, 48)},
		{"png", encodePNG(64, 48)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Thumbnail(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Thumbnail: %v", err)
			}
			if p.MIME != "image/jpeg" {
				t.Errorf("expected image/jpeg, got %s", p.MIME)
			}
			if w, h := decodedSize(t, p); w != 64 || h != 48 {
				t.Errorf("small photo should keep its size, got %dx%d", w, h)
			}
		})
	}
}

func TestThumbnailScalesLongestSide(t *testing.T) {
	p, err := Thumbnail(bytes.NewReader(encodePNG(2000, 1000)))
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	w, h := decodedSize(t, p)
	if w != ThumbnailSize || h != ThumbnailSize/2 {
		t.Errorf("expected %dx%d, got %dx%d", ThumbnailSize, ThumbnailSize/2, w, h)
	}

	p, _ = Thumbnail(bytes.NewReader(encodeJPEG(300, 1200)))
	w, h = decodedSize(t, p)
	if h != ThumbnailSize || w != 128 {
		t.Errorf("expected 128x%d, got %dx%d", ThumbnailSize, w, h)
	}
}

func TestThumbnailRejectsOtherFormats(t *testing.T) {
	_, err := Thumbnail(strings.NewReader("GIF89a not really a photo"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	_, err = Thumbnail(strings.NewReader("plain text"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestThumbnailRejectsOversizedUpload(t *testing.T) {
	data := append(encodePNG(8, 8), make([]byte, MaxUploadSize)...)
	_, err := Thumbnail(bytes.NewReader(data))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestThumbnailCorruptData(t *testing.T) {
	// Valid PNG signature, garbage after it.
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage")...)
	if _, err := Thumbnail(bytes.NewReader(data)); err == nil {
		t.Error("expected decode error")
	}
}
