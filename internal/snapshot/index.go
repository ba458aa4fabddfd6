package snapshot

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
)

// Index maps requested URLs to the snapshots captured for them
type Index map[string]Entry

// Entry is a snapshot found on disk.
type Entry struct {
	Path string
	Frontmatter
}

// BuildIndex builds the index from snapshot files in the output directory
func BuildIndex(outputDir string) (Index, error) {
	slog.Debug("building snapshot index", "dir", outputDir)
	index := make(Index)

	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		return index, nil
	}

	err := filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("failed to access file", "path", path, "error", err)
			return nil
		}

		if info.IsDir() || !strings.HasSuffix(info.Name(), fileExt) {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()

		var matter Frontmatter
		if _, err := frontmatter.Parse(f, &matter); err != nil {
			slog.Warn("failed to parse frontmatter", "path", path, "error", err)
			return nil
		}

		if matter.URL != "" {
			index[matter.URL] = Entry{Path: path, Frontmatter: matter}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error building index: %w", err)
	}

	slog.Debug("snapshot index built", "entries", len(index))
	return index, nil
}

// Has reports whether rawURL was already captured.
func (idx Index) Has(rawURL string) bool {
	_, ok := idx[rawURL]
	return ok
}

// Entries yields the indexed snapshots.
func (idx Index) Entries() iter.Seq[Entry] {
	return maps.Values(idx)
}
