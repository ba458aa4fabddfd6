package snapshot

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xtruder/fromurl/internal/document"
	"github.com/xtruder/fromurl/internal/x"
)

const (
	fileExt      = ".html"
	maxNameBytes = 80
)

// Store writes captured documents below a directory, one folder per host
type Store struct {
	dir   string
	index Index
	now   func() time.Time
}

// NewStore creates a store and indexes the snapshots it already holds
func NewStore(dir string) (*Store, error) {
	index, err := BuildIndex(dir)
	if err != nil {
		return nil, err
	}

	return &Store{
		dir:   dir,
		index: index,
		now:   time.Now,
	}, nil
}

func (s *Store) Index() Index {
	return s.index
}

// Save writes doc, fetched for requestedURL, and returns the file path.
func (s *Store) Save(requestedURL string, doc *document.Document) (string, error) {
	content, err := doc.Serialize()
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}

	final := doc.URL()
	matter := Frontmatter{
		ID:          x.Key(requestedURL)[:16],
		URL:         requestedURL,
		FinalURL:    final.String(),
		Referrer:    doc.Referrer(),
		ContentType: doc.ContentType(),
		Title:       doc.Title(),
		Redirects:   max(len(doc.Hops())-1, 0),
		FetchedAt:   s.now().UTC().Format(time.RFC3339),
	}
	if og, err := doc.OpenGraph(); err == nil {
		matter.Description = og.Description
		if matter.Title == "" {
			matter.Title = og.Title
		}
	} else {
		slog.Debug("no open graph metadata", "url", requestedURL, "error", err)
	}

	header, err := matter.Render()
	if err != nil {
		return "", err
	}

	folder := filepath.Join(s.dir, extractDomain(final))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", folder, err)
	}

	path := filepath.Join(folder, sanitizeFilename(final, matter.ID))
	if err := os.WriteFile(path, []byte(header+content+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.index[requestedURL] = Entry{Path: path, Frontmatter: matter}
	slog.Info("saved snapshot", "url", requestedURL, "path", path)
	return path, nil
}

// sanitizeFilename creates a safe filename from the URL path and snapshot id
func sanitizeFilename(u *url.URL, id string) string {
	name := strings.Trim(u.Path, "/")

	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range invalid {
		name = strings.ReplaceAll(name, char, "-")
	}
	name = strings.Join(strings.Fields(name), "-")

	if name == "" {
		name = "index"
	}
	if len(name) > maxNameBytes {
		name = name[:maxNameBytes]
		for !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
	}
	return fmt.Sprintf("%s-%s%s", name, id, fileExt)
}

// extractDomain returns the host without www. prefix or port
func extractDomain(u *url.URL) string {
	domain := strings.TrimPrefix(u.Hostname(), "www.")
	if domain == "" {
		return "unknown"
	}
	return strings.ReplaceAll(domain, ":", "_")
}
