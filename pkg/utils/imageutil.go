package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageExtensions lists the extensions picked up by a run, in processing order.
// Matching is case-sensitive.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".webp"}

const (
	OutputDirSuffix  = "_watermark"
	OutputNameSuffix = "_watermarked"
)

// IsValidImageType checks if the file name carries a supported extension
func IsValidImageType(filename string) bool {
	return ExtensionRank(filename) >= 0
}

// ExtensionRank returns the index of the file's extension in ImageExtensions, or -1.
func ExtensionRank(filename string) int {
	ext := filepath.Ext(filename)
	for i, valid := range ImageExtensions {
		if ext == valid {
			return i
		}
	}
	return -1
}

// OutputDir returns <inputDir>/<basename(inputDir)>_watermark
func OutputDir(inputDir string) string {
	clean := filepath.Clean(inputDir)
	base := filepath.Base(clean)
	if abs, err := filepath.Abs(clean); err == nil {
		base = filepath.Base(abs)
	}
	return filepath.Join(clean, base+OutputDirSuffix)
}

// GenerateFilename inserts the watermark suffix before the extension.
func GenerateFilename(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filepath.Base(filename), ext)
	return fmt.Sprintf("%s%s%s", name, OutputNameSuffix, ext)
}

// GenerateTempName returns a hidden sibling path of dst used while encoding.
func GenerateTempName(dst string) string {
	dir, file := filepath.Split(dst)
	id := uuid.New().String()[:8]
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", file, id))
}
