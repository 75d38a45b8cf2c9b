package clipdur

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Classifier decides whether a directory entry is a clip to measure.
// dir is the directory being scanned.
type Classifier func(dir string, entry fs.DirEntry) bool

// DefaultExtensions are the clip extensions matched when none are configured.
var DefaultExtensions = []string{".mp3"}

// ExtensionClassifier accepts regular files whose extension matches one of
// exts, ignoring case. The leading dot is optional. Symlinks are followed;
// directories and other special files never match.
//
// Example:
//
//	clipdur.Scan(ctx, dir, clipdur.WithClassifier(clipdur.ExtensionClassifier("mp3", ".MP2")))
func ExtensionClassifier(exts ...string) Classifier {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		want[ext] = true
	}

	return func(dir string, entry fs.DirEntry) bool {
		if !want[strings.ToLower(filepath.Ext(entry.Name()))] {
			return false
		}
		return isRegular(dir, entry)
	}
}

// isRegular reports whether entry is a regular file, resolving symlinks.
func isRegular(dir string, entry fs.DirEntry) bool {
	mode := entry.Type()
	if mode&fs.ModeSymlink == 0 {
		return mode.IsRegular()
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
