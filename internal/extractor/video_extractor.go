package extractor

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/barasher/go-exiftool"
)

// videoDateKeys are tried in order; QuickTime CreationDate carries the
// recording timezone, the others are usually UTC.
var videoDateKeys = []string{"CreationDate", "MediaCreateDate", "CreateDate", "TrackCreateDate"}

// Fractional seconds are accepted by time.Parse without a layout for them.
var exiftoolLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05",
}

// VideoExtractor asks a long-running exiftool process for container dates.
// The process is started on first use.
type VideoExtractor struct {
	binaryPath string

	once    sync.Once
	et      *exiftool.Exiftool
	initErr error
}

func NewVideoExtractor(binaryPath string) *VideoExtractor {
	return &VideoExtractor{binaryPath: binaryPath}
}

func (v *VideoExtractor) Kind() MediaKind { return KindVideo }

func (v *VideoExtractor) DateTaken(path string) (time.Time, bool) {
	v.once.Do(v.start)
	if v.initErr != nil {
		return time.Time{}, false
	}

	fms := v.et.ExtractMetadata(path)
	if len(fms) == 0 || fms[0].Err != nil {
		return time.Time{}, false
	}
	for _, key := range videoDateKeys {
		raw, err := fms[0].GetString(key)
		if err != nil {
			continue
		}
		if t, ok := ParseExifDate(raw); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func (v *VideoExtractor) start() {
	var opts []func(*exiftool.Exiftool) error
	if v.binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(v.binaryPath))
	}
	v.et, v.initErr = exiftool.NewExiftool(opts...)
	if v.initErr != nil {
		log.Printf("exiftool unavailable, video dates disabled: %v", v.initErr)
	}
}

// Close stops the exiftool process if it was started.
func (v *VideoExtractor) Close() error {
	if v.et == nil {
		return nil
	}
	return v.et.Close()
}

// ParseExifDate parses the "YYYY:MM:DD hh:mm:ss" family of timestamps.
// All-zero dates, which cameras write when the clock was never set, are
// treated as missing.
func ParseExifDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "0000:00:00") {
		return time.Time{}, false
	}
	for _, layout := range exiftoolLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
