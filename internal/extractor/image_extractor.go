package extractor

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ImageExtractor reads EXIF DateTimeOriginal, falling back to DateTime.
type ImageExtractor struct{}

func (ImageExtractor) Kind() MediaKind { return KindImage }

func (ImageExtractor) DateTaken(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
