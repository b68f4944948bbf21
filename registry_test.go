package qrc

import (
	"io/fs"
	"sync"
	"testing"

	"github.com/qtgo/qrc/internal/rcctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle(version int, files ...rcctest.File) Bundle {
	tree, names, payload := rcctest.Build(version, files...)
	return Bundle{Version: version, Tree: tree, Names: names, Payload: payload}
}

func TestRegistryLookup(t *testing.T) {
	var r Registry
	r.Register(testBundle(3, testFiles...))

	for _, name := range []string{
		":/images/logo.svg",
		"qrc:/images/logo.svg",
		"qrc:///images/logo.svg",
		"/images/logo.svg",
		"images/logo.svg",
	} {
		b, err := r.ReadFile(name)
		require.NoError(t, err, name)
		assert.Len(t, b, 6*64, name)
	}

	e, err := r.Stat(":/images")
	require.NoError(t, err)
	assert.True(t, e.IsDir())

	_, err = r.Open(":/images")
	assert.ErrorContains(t, err, "is a directory")

	_, err = r.ReadFile(":/nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRegistryOrder(t *testing.T) {
	var r Registry
	r.Register(testBundle(1, rcctest.File{Path: "shared.txt", Data: []byte("first")}))
	r.Register(testBundle(2,
		rcctest.File{Path: "shared.txt", Data: []byte("second")},
		rcctest.File{Path: "only/second.txt", Data: []byte("2")},
	))

	b, err := r.ReadFile(":/shared.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))

	b, err = r.ReadFile(":/only/second.txt")
	require.NoError(t, err)
	assert.Equal(t, "2", string(b))
}

func TestRegistryDuplicate(t *testing.T) {
	var r Registry
	b := testBundle(2, testFiles...)
	r.Register(b)
	r.Register(b)
	assert.Len(t, r.Bundles(), 1)

	// same content in different buffers is a distinct registration
	r.Register(testBundle(2, testFiles...))
	assert.Len(t, r.Bundles(), 2)
}

func TestRegistryMalformed(t *testing.T) {
	var r Registry
	r.Register(Bundle{Version: 2, Tree: []byte{0xff}})
	assert.Len(t, r.Bundles(), 1, "registration does not validate")

	_, err := r.Stat(":/main.qml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)

	// a root claiming an enormous child count fails on the first missing node
	r.Register(Bundle{Version: 1, Tree: []byte{
		0, 0, 0, 0, // name offset
		0, 2, // directory
		0x7f, 0xff, 0xff, 0xff, // child count
		0, 0, 0, 1, // child offset
	}})
	_, err = r.Stat(":/x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)

	// a later good bundle still resolves
	r.Register(testBundle(2, testFiles...))
	_, err = r.Stat(":/main.qml")
	assert.NoError(t, err)
}

func TestRegistryConcurrent(t *testing.T) {
	var r Registry
	r.Register(testBundle(3, testFiles...))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := r.ReadFile(":/main.qml")
			assert.NoError(t, err)
			assert.NotEmpty(t, b)
		}()
	}
	wg.Wait()
}

func TestRegisterResourceData(t *testing.T) {
	saved := DefaultRegistry
	DefaultRegistry = &Registry{}
	t.Cleanup(func() { DefaultRegistry = saved })

	tree, names, payload := rcctest.Build(3, testFiles...)
	RegisterResourceData(3, tree, names, payload)
	RegisterResourceData(3, tree, names, payload)
	require.Len(t, DefaultRegistry.Bundles(), 1)

	b, err := ReadFile(":/i18n/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	rc, err := Open("qrc:/main.qml")
	require.NoError(t, err)
	rc.Close()

	e, err := Stat(":/images/icons/close.png")
	require.NoError(t, err)
	assert.Equal(t, "close.png", e.Name())
}
