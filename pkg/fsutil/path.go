package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHomePath replaces a leading "~" or "~/" with the user's home directory.
// Other paths, including "~user/...", are returned unchanged.
func ExpandHomePath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}

// ExpandHomePaths applies ExpandHomePath to every element, keeping elements
// that cannot be expanded as they are. A nil slice stays nil.
func ExpandHomePaths(paths []string) []string {
	if paths == nil {
		return nil
	}

	out := make([]string, len(paths))

	for idx, path := range paths {
		expanded, err := ExpandHomePath(path)
		if err != nil {
			expanded = path
		}

		out[idx] = expanded
	}

	return out
}
