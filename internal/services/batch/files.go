package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phambaophuc/datemark/pkg/utils"
)

// FindImages lists the supported image files directly inside dir, grouped
// by extension in utils.ImageExtensions order and sorted by name within a group.
// Symlinks to regular files are included; hidden entries are not.
func FindImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !utils.IsValidImageType(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	// ReadDir returns entries sorted by name, so a stable sort keeps that within a group.
	sort.SliceStable(files, func(i, j int) bool {
		return utils.ExtensionRank(files[i]) < utils.ExtensionRank(files[j])
	})

	return files, nil
}
