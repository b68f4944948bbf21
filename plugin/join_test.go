//go:build !windows

package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinPaths(t *testing.T) {
	for _, tc := range []struct {
		paths   []string
		joined  string
		invalid bool
	}{
		{nil, "", false},
		{[]string{"/a"}, "/a", false},
		{[]string{"/a", "b c", "/a"}, "/a:b c:/a", false},
		{[]string{"", "/a"}, ":/a", false},
		{[]string{"/a", "/b:c"}, "", true},
		{[]string{"/a", "/b\x00c"}, "", true},
	} {
		joined, err := JoinPaths(tc.paths...)
		if tc.invalid {
			assert.ErrorIs(t, err, ErrInvalidPath, "%q", tc.paths)
			continue
		}
		if assert.NoError(t, err, "%q", tc.paths) {
			assert.Equal(t, tc.joined, joined, "%q", tc.paths)
		}
	}
}
