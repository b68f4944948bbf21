//go:build windows

package plugin

import (
	"os"
	"strings"
)

// Windows path lists may quote an element containing the separator, but there
// is no way to escape a double quote.
func joinPaths(paths []string) (string, error) {
	var b strings.Builder
	for i, p := range paths {
		if strings.IndexByte(p, 0) >= 0 {
			return "", &InvalidPathError{Path: p, Reason: "contains a NUL byte"}
		}
		if strings.ContainsRune(p, '"') {
			return "", &InvalidPathError{Path: p, Reason: `contains a double quote`}
		}
		if i != 0 {
			b.WriteRune(os.PathListSeparator)
		}
		if strings.ContainsRune(p, os.PathListSeparator) {
			b.WriteByte('"')
			b.WriteString(p)
			b.WriteByte('"')
		} else {
			b.WriteString(p)
		}
	}
	return b.String(), nil
}
