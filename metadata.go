package photosort

import (
	"bytes"

	"github.com/bep/imagemeta"
)

// locationTags maps (source, tag-name) → true for every tag that betrays an
// embedded capture location.
var locationTags = map[imagemeta.Source]map[string]bool{
	imagemeta.EXIF: {
		"GPSLatitude":  true,
		"GPSLongitude": true,
	},
}

// HasLocation reports whether raw image bytes carry embedded GPS coordinates.
// Returns false if the data is nil, empty, or cannot be parsed.
// Graceful degradation: never returns an error.
func HasLocation(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	found := false
	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			if tags, ok := locationTags[ti.Source]; ok {
				return tags[ti.Tag]
			}
			return false
		},
		HandleTag: func(imagemeta.TagInfo) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return false
	}

	return found
}
