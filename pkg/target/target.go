package target

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve maps a URL to the local path it should be saved at inside dir.
// The filename is the last non-empty "/"-separated segment of the URL,
// taken literally (query strings and fragments are kept as part of the
// name). Resolve never touches the filesystem.
func Resolve(rawURL, dir string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("cannot resolve target path for empty URL")
	}
	segments := strings.Split(rawURL, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return filepath.Join(dir, segments[i]), nil
		}
	}
	return "", fmt.Errorf("no filename in URL %q", rawURL)
}
