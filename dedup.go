package photosort

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// dedupThreshold is the maximum Hamming distance between two dHash values
// below which images are considered perceptually identical.
const dedupThreshold = 10

// dedupIndex remembers the perceptual hash of every image seen during a scan.
// It is safe for concurrent use.
type dedupIndex struct {
	mu   sync.Mutex
	seen []dedupEntry
}

type dedupEntry struct {
	hash *goimagehash.ImageHash
	path string
}

// match returns the path of an earlier, perceptually identical image, or ""
// when img is new. New images are remembered for future comparisons. If
// hashing fails for any reason the image is treated as unique (graceful
// degradation).
func (d *dedupIndex) match(img image.Image, path string) string {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return ""
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.seen {
		dist, err := hash.Distance(e.hash)
		if err == nil && dist < dedupThreshold {
			return e.path
		}
	}

	d.seen = append(d.seen, dedupEntry{hash: hash, path: path})
	return ""
}

// readImageFile reads path and returns both raw bytes and the decoded image.
// Raw bytes are used for metadata probing; the decoded image is used for
// perceptual hashing. Returns (nil, nil) on any recoverable failure for
// graceful degradation.
func readImageFile(path string) ([]byte, image.Image) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Raw bytes available for metadata even if image decode fails.
		return data, nil
	}

	return data, img
}
