package photosort

// Test image fixtures. The scorer and dedup tests need real decodable images
// in every supported format; these helpers generate them in-process.

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// skinTone sits comfortably inside the skin-pixel band used by skinRatio.
var skinTone = color.RGBA{R: 224, G: 172, B: 105, A: 255}

// slate fails the skin-pixel band (red below green).
var slate = color.RGBA{R: 100, G: 120, B: 140, A: 255}

// solidImage returns a w*h image filled with c.
func solidImage(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// gradientImage returns a left-to-right brightness ramp. Its difference hash
// is stable and far from checkerImage's.
func gradientImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(w-1, 1))
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// checkerImage returns an 8px black and white checkerboard.
func checkerImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// writeImage encodes img at path in the format implied by the extension,
// creating parent directories as needed.
func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, nil)
	case ".png":
		err = png.Encode(f, img)
	case ".gif":
		err = gif.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tiff", ".tif":
		err = tiff.Encode(f, img, nil)
	default:
		t.Fatalf("writeImage: unsupported extension in %q", path)
	}
	if err != nil {
		t.Fatal(err)
	}
}

// writeFile drops raw bytes at path, creating parent directories as needed.
func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
