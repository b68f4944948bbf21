//go:build !(qt && cgo)

package qrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNativeReadFileUnavailable(t *testing.T) {
	assert.False(t, NativeAvailable())
	_, err := NativeReadFile(":/main.qml")
	assert.ErrorIs(t, err, ErrNoNative)
}
