package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/phambaophuc/datemark/internal/config"
	"github.com/phambaophuc/datemark/internal/logging"
	"github.com/phambaophuc/datemark/internal/services/batch"
	"github.com/phambaophuc/datemark/internal/services/processor"
)

const longHelp = `Stamp every image in a directory with the date it was taken.

The capture date is read from EXIF metadata and drawn as YYYY-MM-DD with a
contrasting shadow. Images without a readable date are stamped "No-Date".
Results go to <input_dir>/<input_dir name>_watermark; originals are untouched.

Settings are read from built-in defaults, then --config (TOML or YAML), then
DATEMARK_* environment variables (a .env file is honored), then flags.`

var exampleUsage = strings.TrimSpace(`
  datemark ~/Pictures/trip
  datemark ~/Pictures/trip --color red --position top-left --font-size 48
  datemark ./scans --config datemark.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var cfgPath string

	root := &cobra.Command{
		Use:           "datemark <input_dir>",
		Short:         "Add EXIF capture date watermarks to images",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgPath != "" {
				fc, err := config.LoadFileConfig(cfgPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				config.ApplyFileConfig(&cfg, fc, changed)
			}

			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.NewWithWriter(cfg.Log.Level, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Sync()

			return run(logger, args[0], cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to a TOML or YAML config file")
	root.Flags().IntVar(&cfg.Watermark.FontSize, "font-size", cfg.Watermark.FontSize, "font size for watermark")
	root.Flags().StringVar(&cfg.Watermark.Color, "color", cfg.Watermark.Color, "text color: white, black, red, blue or green")
	root.Flags().StringVar(&cfg.Watermark.Position, "position", cfg.Watermark.Position, "watermark position: top-left, top-right, bottom-left, bottom-right or center")
	root.Flags().IntVar(&cfg.Watermark.Quality, "quality", cfg.Watermark.Quality, "JPEG quality of the output (1-100)")
	root.Flags().StringArrayVar(&cfg.Fonts.Paths, "font", cfg.Fonts.Paths, "font file to try before system fonts (repeatable)")
	root.Flags().StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn or error")

	return root
}

func run(logger *zap.Logger, inputDir string, cfg config.Config) error {
	if err := batch.ValidateInputDir(inputDir); err != nil {
		return err
	}

	face, fontName := processor.LoadFace(
		processor.DefaultFontChain(cfg.Fonts.Paths),
		float64(cfg.Watermark.FontSize),
		logger,
	)

	logger.Info("Processing images",
		zap.String("input_dir", inputDir),
		zap.Int("font_size", cfg.Watermark.FontSize),
		zap.String("color", cfg.Watermark.Color),
		zap.String("position", cfg.Watermark.Position),
		zap.String("font", fontName),
	)

	imageProcessor := processor.NewImageProcessor(cfg.Watermark, face, logger)
	service := batch.NewBatchService(imageProcessor, logger)

	if _, err := service.Run(inputDir); err != nil {
		return err
	}
	return nil
}
