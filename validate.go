package photosort

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions is the closed set of formats the scanner will score.
// Anything else is recorded as skipped and never reaches the Scorer.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// SupportedFormat reports whether path names an image the scanner handles,
// judged by extension alone (case-insensitive). Content is never sniffed.
func SupportedFormat(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// formatName normalizes the extension for reporting: "IMG.JPEG" → "jpeg".
func formatName(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// validate normalizes defaults and checks the request before the scan
// touches anything. Failures wrap ErrConfig.
func (req *Request) validate() error {
	if req.InputDir == "" {
		return fmt.Errorf("%w: input directory not set", ErrConfig)
	}
	req.InputDir = filepath.Clean(req.InputDir)
	info, err := os.Stat(req.InputDir)
	if err != nil {
		return fmt.Errorf("%w: input directory %q: %v", ErrConfig, req.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: input path %q is not a directory", ErrConfig, req.InputDir)
	}
	if req.Threshold < 0 || req.Threshold > 1 {
		return fmt.Errorf("%w: threshold %g outside [0.0, 1.0]", ErrConfig, req.Threshold)
	}
	if req.OutputDir == "" {
		req.OutputDir = req.InputDir
	} else {
		req.OutputDir = filepath.Clean(req.OutputDir)
	}
	return nil
}
