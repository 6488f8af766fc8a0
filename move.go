package photosort

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// moveFile moves src to dest, creating parent directories as needed. When dest
// is already taken the name is probed with numeric suffixes (photo_1.jpg,
// photo_2.jpg, ...) until a free slot is found; existing files are never
// overwritten. Returns the path the file actually landed on.
func moveFile(src, dest string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	dest = resolveCollision(dest)

	if err := os.Rename(src, dest); err != nil {
		// Rename fails across filesystems: fall back to copy + remove.
		if err := copyFile(src, dest); err != nil {
			return "", err
		}
		if err := os.Remove(src); err != nil {
			return "", err
		}
	}
	return dest, nil
}

// resolveCollision returns dest unchanged when the slot is free, otherwise the
// first name_N.ext variant that does not exist yet.
func resolveCollision(dest string) string {
	if _, err := os.Lstat(dest); err != nil {
		return dest
	}
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}

// copyFile writes a byte-for-byte copy of src at dest. The destination is
// created exclusively so a concurrent writer cannot be clobbered.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return err
	}
	return out.Close()
}
