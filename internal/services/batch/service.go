package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/phambaophuc/datemark/internal/models"
	"github.com/phambaophuc/datemark/pkg/utils"
	"go.uber.org/zap"
)

// ErrInputNotDirectory is returned when the input path is missing or not a directory.
var ErrInputNotDirectory = errors.New("input directory does not exist")

// Processor watermarks one file; failures are carried in the result.
type Processor interface {
	ProcessFile(src, dst string) models.ProcessedImage
}

type BatchService struct {
	processor Processor
	logger    *zap.Logger
}

func NewBatchService(processor Processor, logger *zap.Logger) *BatchService {
	return &BatchService{
		processor: processor,
		logger:    logger,
	}
}

// ValidateInputDir fails with ErrInputNotDirectory unless dir is an existing directory.
func ValidateInputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputNotDirectory, dir)
	}
	return nil
}

// Run watermarks every supported image directly inside inputDir, one at a
// time, writing into <inputDir>/<base>_watermark. Only a bad input
// directory or an unusable output directory stop the run.
func (s *BatchService) Run(inputDir string) (*models.BatchSummary, error) {
	if err := ValidateInputDir(inputDir); err != nil {
		return nil, err
	}

	summary := &models.BatchSummary{
		RunID:     uuid.New().String(),
		InputDir:  inputDir,
		OutputDir: utils.OutputDir(inputDir),
	}
	logger := s.logger.With(zap.String("run_id", summary.RunID))

	files, err := FindImages(inputDir)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		logger.Info("No image files found in the specified directory",
			zap.String("input_dir", inputDir))
		return summary, nil
	}

	if err := os.MkdirAll(summary.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, src := range files {
		dst := filepath.Join(summary.OutputDir, utils.GenerateFilename(src))
		summary.Results = append(summary.Results, s.processor.ProcessFile(src, dst))
	}

	logger.Info("Processed images",
		zap.Int("count", summary.Processed()),
		zap.Int("succeeded", summary.Succeeded()),
		zap.Int("failed", summary.Failed()),
		zap.String("output_dir", summary.OutputDir),
	)

	return summary, nil
}
