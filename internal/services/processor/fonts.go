package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const fontDPI = 72

// SystemFontNames are looked up in the platform font directories, in order.
var SystemFontNames = []string{"arial.ttf", "DejaVuSans.ttf"}

// BasicFontName identifies the bitmap face used when every candidate fails.
const BasicFontName = "basicfont 7x13"

var errFontNotFound = errors.New("font not found")

// FontSource is one candidate in the font chain.
type FontSource interface {
	Name() string
	Face(size float64) (font.Face, error)
}

type fileFont struct {
	path string
}

func (f fileFont) Name() string { return f.path }

func (f fileFont) Face(size float64) (font.Face, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	return parseFace(data, size)
}

type systemFont struct {
	name string
	dirs []string
}

func (f systemFont) Name() string { return f.name }

func (f systemFont) Face(size float64) (font.Face, error) {
	path, err := findFontFile(f.dirs, f.name)
	if err != nil {
		return nil, err
	}
	return fileFont{path: path}.Face(size)
}

type embeddedFont struct {
	name string
	data []byte
}

func (f embeddedFont) Name() string { return f.name }

func (f embeddedFont) Face(size float64) (font.Face, error) {
	return parseFace(f.data, size)
}

// DefaultFontChain lists user fonts first, then the named system fonts,
// then the embedded Go Regular face.
func DefaultFontChain(userPaths []string) []FontSource {
	var chain []FontSource
	for _, p := range userPaths {
		chain = append(chain, fileFont{path: p})
	}

	dirs := SystemFontDirs()
	for _, name := range SystemFontNames {
		chain = append(chain, systemFont{name: name, dirs: dirs})
	}

	return append(chain, embeddedFont{name: "Go Regular", data: goregular.TTF})
}

// LoadFace walks the chain and returns the first face that loads.
// When none does, the basic bitmap face is returned; it ignores size.
func LoadFace(chain []FontSource, size float64, logger *zap.Logger) (font.Face, string) {
	for _, src := range chain {
		face, err := src.Face(size)
		if err != nil {
			logger.Debug("Font candidate unavailable",
				zap.String("font", src.Name()),
				zap.Error(err),
			)
			continue
		}
		return face, src.Name()
	}
	return basicfont.Face7x13, BasicFontName
}

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// SystemFontDirs returns the font directories of the current platform.
func SystemFontDirs() []string {
	home, _ := os.UserHomeDir()

	var dirs []string
	switch runtime.GOOS {
	case "windows":
		winDir := os.Getenv("WINDIR")
		if winDir == "" {
			winDir = `C:\Windows`
		}
		dirs = append(dirs, filepath.Join(winDir, "Fonts"))
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = append(dirs, "/System/Library/Fonts", "/Library/Fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		dirs = append(dirs, "/usr/share/fonts", "/usr/local/share/fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
	}
	return dirs
}

// findFontFile checks the working directory, then searches dirs recursively
// for a file named name, ignoring case.
func findFontFile(dirs []string, name string) (string, error) {
	if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
		return name, nil
	}

	for _, dir := range dirs {
		var found string
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), name) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errFontNotFound, name)
}
