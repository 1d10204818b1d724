package extractor

import "time"

// MediaKind classifies a file by extension.
type MediaKind string

const (
	KindImage   MediaKind = "image"
	KindVideo   MediaKind = "video"
	KindUnknown MediaKind = "unknown"
)

// MediaDate is the capture date found for one file. Found is false when the
// file is unsupported or carries no usable date.
type MediaDate struct {
	Path  string    `json:"path"`
	Kind  MediaKind `json:"kind"`
	Taken time.Time `json:"taken"`
	Found bool      `json:"found"`
}

// DateFormat is how dates are printed in listings.
const DateFormat = "2006-01-02 15:04:05"

func (m MediaDate) String() string {
	if !m.Found {
		return m.Path + " -> No date found"
	}
	return m.Path + " -> " + m.Taken.Format(DateFormat)
}

// DateExtractor reads the capture date of one kind of media file.
type DateExtractor interface {
	Kind() MediaKind
	DateTaken(path string) (time.Time, bool)
}
