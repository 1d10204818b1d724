package extractor

import (
	"path/filepath"
	"strings"
)

var (
	DefaultImageExts = []string{".jpg", ".jpeg", ".png", ".heic", ".tiff"}
	DefaultVideoExts = []string{".mp4", ".mov", ".avi", ".mkv", ".3gp", ".mts"}
)

// Options selects which extensions count as images and videos.
type Options struct {
	ImageExts    []string
	VideoExts    []string
	ExiftoolPath string
}

// Extractor dispatches each file to the DateExtractor for its kind.
type Extractor struct {
	kinds      map[string]MediaKind
	extractors map[MediaKind]DateExtractor
	video      *VideoExtractor
}

// NewExtractor builds an extractor; empty extension lists fall back to the defaults.
func NewExtractor(opts Options) *Extractor {
	if len(opts.ImageExts) == 0 {
		opts.ImageExts = DefaultImageExts
	}
	if len(opts.VideoExts) == 0 {
		opts.VideoExts = DefaultVideoExts
	}

	video := NewVideoExtractor(opts.ExiftoolPath)
	e := &Extractor{
		kinds: make(map[string]MediaKind),
		extractors: map[MediaKind]DateExtractor{
			KindImage: ImageExtractor{},
			KindVideo: video,
		},
		video: video,
	}
	for _, ext := range opts.ImageExts {
		e.kinds[normalizeExt(ext)] = KindImage
	}
	for _, ext := range opts.VideoExts {
		e.kinds[normalizeExt(ext)] = KindVideo
	}
	return e
}

// Use replaces the extractor for its kind.
func (e *Extractor) Use(d DateExtractor) {
	e.extractors[d.Kind()] = d
}

// KindOf classifies path by its extension, case-insensitively.
func (e *Extractor) KindOf(path string) MediaKind {
	if k, ok := e.kinds[strings.ToLower(filepath.Ext(path))]; ok {
		return k
	}
	return KindUnknown
}

// Extract never fails: unreadable files and files without metadata come back
// with Found=false.
func (e *Extractor) Extract(path string) MediaDate {
	md := MediaDate{Path: path, Kind: e.KindOf(path)}
	d, ok := e.extractors[md.Kind]
	if !ok {
		return md
	}
	md.Taken, md.Found = d.DateTaken(path)
	return md
}

func (e *Extractor) Close() error {
	return e.video.Close()
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
