package processor

import (
	"fmt"
	"image"
	"os"
)

// ValidateFile checks that path is a non-empty regular file.
func (p *ImageProcessor) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file")
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}
	return nil
}

// ValidateImage rejects images without pixels.
func (p *ImageProcessor) ValidateImage(img image.Image) error {
	if img.Bounds().Empty() {
		return fmt.Errorf("invalid image: empty bounds %v", img.Bounds())
	}
	return nil
}
