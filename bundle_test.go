package qrc

import (
	"encoding/binary"
	"testing"

	"github.com/qtgo/qrc/internal/rcctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleFromRCC(t *testing.T) {
	rcc := rcctest.RCC(3, testFiles...)
	b, err := BundleFromRCC(rcc)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Version)

	tree, names, payload := rcctest.Build(3, testFiles...)
	assert.Equal(t, tree, b.Tree)
	assert.Equal(t, names, b.Names[:len(names)])
	assert.Equal(t, payload, b.Payload[:len(payload)])

	r, err := b.Reader()
	require.NoError(t, err)
	e, err := r.Lookup("i18n/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", readAll(t, e))
}

func TestBundleFromRCCErrors(t *testing.T) {
	_, err := BundleFromRCC([]byte("qre"))
	assert.ErrorContains(t, err, "read magic")

	rcc := rcctest.RCC(1, rcctest.File{Path: "a", Data: []byte("a")})
	binary.BigEndian.PutUint32(rcc[4:], 9)
	_, err = BundleFromRCC(rcc)
	assert.ErrorContains(t, err, "unsupported format version 9")

	rcc = rcctest.RCC(1, rcctest.File{Path: "a", Data: []byte("a")})
	binary.BigEndian.PutUint32(rcc[8:], uint32(len(rcc)+1))
	_, err = BundleFromRCC(rcc)
	assert.ErrorContains(t, err, "tree offset")
}

func TestBundleSame(t *testing.T) {
	tree, names, payload := rcctest.Build(1, testFiles...)
	a := Bundle{Version: 1, Tree: tree, Names: names, Payload: payload}

	assert.True(t, a.same(a))
	assert.False(t, a.same(Bundle{Version: 2, Tree: tree, Names: names, Payload: payload}))

	cp := append([]byte(nil), tree...)
	assert.False(t, a.same(Bundle{Version: 1, Tree: cp, Names: names, Payload: payload}))
}
