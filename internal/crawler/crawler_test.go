package crawler

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housekeeper/internal/extractor"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCrawler_ScanFolder(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.jpg")
	touch(t, root, "a/notes.txt")
	touch(t, root, "a/clip.MOV")
	touch(t, root, ".git/HEAD")
	touch(t, root, ".thumbnails/a.jpg")
	touch(t, root, "c/d/e.png")

	ext := extractor.NewExtractor(extractor.Options{})
	defer ext.Close()
	ext.Use(noDates{})

	var got []extractor.MediaDate
	err := NewCrawler(ext).ScanFolder(root, func(md extractor.MediaDate) {
		got = append(got, md)
	})
	require.NoError(t, err)

	var paths []string
	for _, md := range got {
		rel, err := filepath.Rel(root, md.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
		assert.False(t, md.Found)
	}
	assert.Equal(t, []string{"a/clip.MOV", "a/notes.txt", "b.jpg", "c/d/e.png"}, paths)

	assert.Equal(t, extractor.KindVideo, got[0].Kind)
	assert.Equal(t, extractor.KindUnknown, got[1].Kind)
	assert.Equal(t, extractor.KindImage, got[2].Kind)
}

func TestCrawler_ScanFolder_HiddenRootIsScanned(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".photos")
	touch(t, root, "x.jpg")

	ext := extractor.NewExtractor(extractor.Options{})
	defer ext.Close()

	count := 0
	require.NoError(t, NewCrawler(ext).ScanFolder(root, func(extractor.MediaDate) { count++ }))
	assert.Equal(t, 1, count)
}

func TestCrawler_ScanFolder_MissingRoot(t *testing.T) {
	ext := extractor.NewExtractor(extractor.Options{})
	defer ext.Close()

	err := NewCrawler(ext).ScanFolder(filepath.Join(t.TempDir(), "missing"), func(extractor.MediaDate) {})
	assert.Error(t, err)
}

func TestCrawler_ScanFolder_SkipsUnreadableDirs(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced here")
	}
	root := t.TempDir()
	touch(t, root, "a.jpg")
	touch(t, root, "locked/hidden.jpg")
	touch(t, root, "z/last.png")

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	ext := extractor.NewExtractor(extractor.Options{})
	defer ext.Close()

	var paths []string
	err := NewCrawler(ext).ScanFolder(root, func(md extractor.MediaDate) {
		rel, _ := filepath.Rel(root, md.Path)
		paths = append(paths, filepath.ToSlash(rel))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "z/last.png"}, paths)
}

// noDates stands in for exiftool, which test machines may not have.
type noDates struct{}

func (noDates) Kind() extractor.MediaKind { return extractor.KindVideo }

func (noDates) DateTaken(string) (time.Time, bool) { return time.Time{}, false }
