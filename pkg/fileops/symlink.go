package fileops

import (
	"os"
	"path/filepath"
)

// Config files are often symlinks: dotfile managers keep the real file in
// a tracked directory and link it into place. Renaming a temp file over
// the link would replace the link itself with a regular file and quietly
// disconnect the managed copy, so every mutation resolves the final path
// first and writes through the link.

// ResolvePath follows a symlink at path and returns the file a write
// should actually land on. Paths that do not exist or are not symlinks
// come back unchanged. A dangling link resolves one hop to its recorded
// destination so the write creates the file where the link points.
func ResolvePath(path string) string {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return path
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved
	}

	dest, err := os.Readlink(path)
	if err != nil {
		return path
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return dest
}
