//go:build qt && cgo

package qrc

import (
	"io/fs"
	"testing"

	"github.com/qtgo/qrc/internal/rcctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterResourceDataNative(t *testing.T) {
	require.True(t, NativeAvailable())

	tree, names, payload := rcctest.Build(2,
		rcctest.File{Path: "qtglue-test/plain.txt", Data: []byte("plain")},
		rcctest.File{Path: "qtglue-test/packed.txt", Data: []byte("packed packed packed"), Compression: rcctest.Zlib},
	)
	RegisterResourceData(2, tree, names, payload)

	b, err := NativeReadFile(":/qtglue-test/plain.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(b))

	b, err = NativeReadFile("qrc:/qtglue-test/packed.txt")
	require.NoError(t, err)
	assert.Equal(t, "packed packed packed", string(b))

	_, err = NativeReadFile(":/qtglue-test/missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
