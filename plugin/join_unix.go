//go:build !windows

package plugin

import (
	"os"
	"strings"
)

func joinPaths(paths []string) (string, error) {
	var b strings.Builder
	for i, p := range paths {
		if strings.IndexByte(p, 0) >= 0 {
			return "", &InvalidPathError{Path: p, Reason: "contains a NUL byte"}
		}
		if strings.ContainsRune(p, os.PathListSeparator) {
			return "", &InvalidPathError{Path: p, Reason: "contains the path list separator " + string(os.PathListSeparator)}
		}
		if i != 0 {
			b.WriteRune(os.PathListSeparator)
		}
		b.WriteString(p)
	}
	return b.String(), nil
}
