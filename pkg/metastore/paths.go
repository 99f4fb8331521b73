package metastore

import (
	"strings"

	"github.com/driftfs/driftfs/pkg/errdefs"
)

// SplitPath parses an absolute path into its components. The root "/" parses
// to an empty slice. Relative paths, empty segments, and trailing slashes
// are rejected; ".." is not resolved here, clients normalize before sending.
func SplitPath(path string) ([]string, error) {
	if path == "" || !strings.HasPrefix(path, "/") {
		return nil, errdefs.InvalidArgumentf("path %q must be absolute", path)
	}
	if path == "/" {
		return nil, nil
	}
	if strings.HasSuffix(path, "/") {
		return nil, errdefs.InvalidArgumentf("path %q must not end with a slash", path)
	}

	parts := strings.Split(path[1:], "/")
	for _, p := range parts {
		if p == "" {
			return nil, errdefs.InvalidArgumentf("path %q contains an empty segment", path)
		}
	}
	return parts, nil
}

// SplitParent returns the parent components and the final name of a path.
// The root has no parent and is rejected.
func SplitParent(path string) (parent []string, name string, err error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, "", err
	}
	if len(parts) == 0 {
		return nil, "", errdefs.InvalidArgumentf("path %q has no parent", path)
	}
	return parts[:len(parts)-1], parts[len(parts)-1], nil
}
