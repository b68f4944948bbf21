//go:build windows

package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinPaths(t *testing.T) {
	joined, err := JoinPaths(`C:\Qt\plugins`, `D:\odd;dir`, `C:\Qt\plugins`)
	assert.NoError(t, err)
	assert.Equal(t, `C:\Qt\plugins;"D:\odd;dir";C:\Qt\plugins`, joined)

	_, err = JoinPaths(`C:\Qt\plugins`, `C:\"quoted"`)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = JoinPaths(`C:\Qt\plugins`, "C:\\nul\x00dir")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
