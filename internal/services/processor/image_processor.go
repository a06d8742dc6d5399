package processor

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/datemark/internal/models"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	// imaging registers bmp and tiff; webp has to be added for decoding.
	_ "golang.org/x/image/webp"
)

const DefaultQuality = 95

type ImageProcessor struct {
	request models.WatermarkRequest
	face    font.Face
	logger  *zap.Logger
}

// NewImageProcessor returns a processor drawing with face. The face is
// shared by every file of the run.
func NewImageProcessor(request models.WatermarkRequest, face font.Face, logger *zap.Logger) *ImageProcessor {
	return &ImageProcessor{
		request: request,
		face:    face,
		logger:  logger,
	}
}

// ProcessFile watermarks src with its capture date and writes the result to dst.
// Failures are reported in the returned value, never as a panic.
func (p *ImageProcessor) ProcessFile(src, dst string) models.ProcessedImage {
	result := models.ProcessedImage{
		Source: src,
		Output: dst,
	}

	text, ok := p.ExifDate(src)
	if !ok {
		text = models.FallbackText
	}
	result.Text = text

	if err := p.watermarkFile(src, dst, text); err != nil {
		p.logger.Error("Error processing image",
			zap.String("path", src),
			zap.Error(err),
		)
		result.Status = models.StatusFailed
		result.Error = err.Error()
		return result
	}

	p.logger.Info("Watermarked image",
		zap.String("source", src),
		zap.String("output", dst),
		zap.String("text", text),
	)
	result.Status = models.StatusCompleted
	return result
}

func (p *ImageProcessor) watermarkFile(src, dst, text string) error {
	if err := p.ValidateFile(src); err != nil {
		return err
	}

	// EXIF is not copied to the output, so apply its orientation to the pixels.
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if err := p.ValidateImage(img); err != nil {
		return err
	}

	watermarked := p.addWatermark(img, text)

	if err := p.saveImage(watermarked, dst); err != nil {
		return err
	}
	return nil
}
