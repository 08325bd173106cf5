package fileops

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a path that starts with "~/" to the user's home
// directory. Paths declared in the settings file (custom targets, path
// overrides, extra sources, the journal location) routinely use the
// shortcut. Any other path, and a path whose home directory cannot be
// determined, comes back unchanged.
func ExpandPath(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
