package qrc

import (
	"bytes"
	"fmt"
)

// Bundle is one compiled resource tree as handed to qRegisterResourceData: a
// tree index, a name table and a payload, all encoded for Version.
//
// The three slices are not copied by anything in this package. Once a Bundle
// has been registered they must not be modified.
type Bundle struct {
	Version int
	Tree    []byte
	Names   []byte
	Payload []byte
}

// BundleFromRCC splits a standalone RCC file image into its tree, names and
// payload regions. Each region extends to the end of the image, which is also
// how Qt registers an RCC file loaded into memory.
func BundleFromRCC(rcc []byte) (Bundle, error) {
	h, err := ParseRCCHeader(bytes.NewReader(rcc))
	if err != nil {
		return Bundle{}, fmt.Errorf("parse rcc header: %w", err)
	}
	for _, off := range []struct {
		name string
		v    int32
	}{
		{"tree", h.TreeOffset},
		{"names", h.NamesOffset},
		{"data", h.DataOffset},
	} {
		if off.v < 0 || int(off.v) > len(rcc) {
			return Bundle{}, fmt.Errorf("%s offset %#x out of range (size %#x)", off.name, off.v, len(rcc))
		}
	}
	return Bundle{
		Version: int(h.FormatVersion),
		Tree:    rcc[h.TreeOffset:],
		Names:   rcc[h.NamesOffset:],
		Payload: rcc[h.DataOffset:],
	}, nil
}

// Reader opens the bundle for reading. Offsets reported by its entries are
// relative to Tree (for directories) or Payload (for files).
func (b Bundle) Reader() (*Reader, error) {
	return newReader(b.Version,
		bytes.NewReader(b.Tree),
		bytes.NewReader(b.Names),
		bytes.NewReader(b.Payload),
		0, 0)
}

// same reports whether two bundles share the same backing buffers.
func (b Bundle) same(o Bundle) bool {
	return b.Version == o.Version &&
		sameBuffer(b.Tree, o.Tree) &&
		sameBuffer(b.Names, o.Names) &&
		sameBuffer(b.Payload, o.Payload)
}

func sameBuffer(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	return &a[0] == &b[0]
}
