package crawler

import (
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"housekeeper/internal/extractor"
)

// Crawler scans a directory tree for media files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor) *Crawler {
	return &Crawler{
		extractor: ext,
		ignored:   []string{".git", "node_modules", "@eaDir"},
	}
}

// ScanFolder walks root in lexical order and reports a date for every regular
// file, including ones that are not media. Results are streamed through
// onFile so large libraries are never held in memory.
func (c *Crawler) ScanFolder(root string, onFile func(extractor.MediaDate)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Log and continue instead of failing the whole scan
			log.Printf("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && c.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		onFile(c.extractor.Extract(path))
		return nil
	})
}

func (c *Crawler) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}
