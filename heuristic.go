package photosort

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// heuristicSampleTarget caps how many pixels skinRatio inspects per image.
const heuristicSampleTarget = 1000

// HeuristicScorer rates images from pixel statistics alone: the share of
// skin-tone pixels plus an aspect-ratio prior. It needs no network access and
// scores identical files identically.
type HeuristicScorer struct{}

func (HeuristicScorer) String() string { return "heuristic" }

// Score decodes the image at path and rates it in [0, 1].
func (HeuristicScorer) Score(_ context.Context, path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return rateImage(img), nil
}

// rateImage combines the skin-tone ratio with an aspect-ratio prior.
// Photographic crops (aspect between 0.5 and 2.0) start at 0.1; the skin
// ratio adds stepped bonuses at 20% and 30% plus a proportional component.
func rateImage(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	score := 0.0
	if ar := float64(w) / float64(h); ar > 0.5 && ar < 2.0 {
		score += 0.1
	}

	ratio := skinRatio(img)
	switch {
	case ratio > 0.3:
		score += 0.4
	case ratio > 0.2:
		score += 0.2
	}
	score += ratio * 0.5

	return clamp01(score)
}

// skinRatio samples up to heuristicSampleTarget pixels evenly across the
// image and reports the share that fall in the skin-tone band of RGB space.
func skinRatio(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	total := w * h

	stride := total / heuristicSampleTarget
	if stride < 1 {
		stride = 1
	}

	sampled, skin := 0, 0
	for i := 0; i < total; i += stride {
		x := bounds.Min.X + i%w
		y := bounds.Min.Y + i/w
		r16, g16, b16, _ := img.At(x, y).RGBA()
		r, g, b := int(r16>>8), int(g16>>8), int(b16>>8)
		if r > 95 && g > 40 && b > 20 && r > g && r > b && r-g > 15 {
			skin++
		}
		sampled++
	}
	if sampled == 0 {
		return 0
	}

	return float64(skin) / float64(sampled)
}
