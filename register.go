package qrc

import "errors"

// ErrNoNative is returned by NativeReadFile when the package was built
// without the qt build tag.
var ErrNoNative = errors.New("qrc: built without qt support")

// Qt hooks, nil unless the package was built with the qt build tag.
var (
	nativeRegister func(version int, tree, names, payload []byte)
	nativeRead     func(name string) ([]byte, error)
)

// RegisterResourceData registers a compiled resource tree. It is what code
// generated from a .qrc file calls at init time.
//
// When built with the qt build tag (and cgo), the buffers are forwarded to
// Qt's qRegisterResourceData. In every build they are recorded in
// DefaultRegistry.
//
// Nothing is validated. The caller must guarantee that tree, names and
// payload together encode a single well-formed resource tree of the given
// format version, and that they are never modified afterwards. Inconsistent
// buffers are undefined behavior inside Qt (typically a crash on first
// access); in DefaultRegistry they show up as lookup errors. Registration
// failure is not reported.
func RegisterResourceData(version int, tree, names, payload []byte) {
	b := Bundle{
		Version: version,
		Tree:    tree,
		Names:   names,
		Payload: payload,
	}
	if nativeRegister != nil {
		nativeRegister(version, tree, names, payload)
	}
	DefaultRegistry.Register(b)
}

// NativeAvailable reports whether RegisterResourceData forwards to Qt.
func NativeAvailable() bool {
	return nativeRegister != nil
}

// NativeReadFile reads a resource the way Qt sees it, through QFile. The path
// accepts the same forms as Registry.Stat.
func NativeReadFile(name string) ([]byte, error) {
	if nativeRead == nil {
		return nil, ErrNoNative
	}
	return nativeRead(":/" + cleanResourcePath(name))
}
