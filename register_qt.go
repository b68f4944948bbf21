//go:build qt && cgo

package qrc

/*
#cgo pkg-config: Qt5Core
#cgo CXXFLAGS: -std=c++11 -fPIC
#include <stdlib.h>
#include "register_qt.h"
*/
import "C"

import (
	"io/fs"
	"sync"
	"unsafe"
)

// Qt keeps the raw pointers for the life of the process, and cgo does not
// allow C to retain Go pointers, so each buffer is copied once into C memory
// which is never freed. Registering the same Go buffers again reuses the
// earlier copy, keeping Qt's duplicate check effective.
var (
	nativeMu     sync.Mutex
	nativeCopies = map[*byte]unsafe.Pointer{}
)

func init() {
	nativeRegister = registerNative
	nativeRead = readNative
}

func registerNative(version int, tree, names, payload []byte) {
	nativeMu.Lock()
	defer nativeMu.Unlock()

	t, n, p := cCopy(tree), cCopy(names), cCopy(payload)
	C.qtglue_register_resource_data(C.int(version),
		(*C.uchar)(t),
		(*C.uchar)(n),
		(*C.uchar)(p))
	log().Debug("forwarded resource bundle to qRegisterResourceData", "version", version)
}

func cCopy(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	if p, ok := nativeCopies[&b[0]]; ok {
		return p
	}
	p := C.CBytes(b)
	nativeCopies[&b[0]] = p
	return p
}

func readNative(name string) ([]byte, error) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))

	var n C.longlong
	p := C.qtglue_read_resource(cs, &n)
	if p == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	defer C.free(unsafe.Pointer(p))
	return C.GoBytes(unsafe.Pointer(p), C.int(n)), nil
}
