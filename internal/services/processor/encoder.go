package processor

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/phambaophuc/datemark/pkg/utils"
)

// encodeImage encodes img in the format implied by the extension of dst.
func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image, dst string) error {
	if strings.ToLower(filepath.Ext(dst)) == ".webp" {
		return nativewebp.Encode(w, img, nil)
	}

	format, err := imaging.FormatFromFilename(dst)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(p.getQuality()))
}

// saveImage writes img to a temp file beside dst and renames it into place,
// so dst is either the previous content or the complete new image.
func (p *ImageProcessor) saveImage(img image.Image, dst string) (err error) {
	tmp := utils.GenerateTempName(dst)

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err = p.encodeImage(f, img, dst); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	if err = os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func (p *ImageProcessor) getQuality() int {
	if p.request.Quality > 0 {
		return min(100, max(1, p.request.Quality))
	}
	return DefaultQuality
}
