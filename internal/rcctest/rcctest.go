// Package rcctest encodes small Qt resource trees for tests.
package rcctest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how a file's payload is stored.
type Compression int

const (
	None Compression = iota
	Zlib
	Zstd
)

// File is a file to place in the tree.
type File struct {
	Path        string // slash separated, no leading slash
	Data        []byte
	Compression Compression
	Country     uint16
	Language    uint16
	ModTime     time.Time
}

type node struct {
	name     string
	file     *File
	children []*node

	index       int
	childOffset int
	nameOffset  int
	dataOffset  int
}

// Build encodes files as a tree index, name table and payload for the given
// format version (1-3). Intermediate directories are created as needed.
func Build(version int, files ...File) (tree, names, payload []byte) {
	root := &node{}
	for i := range files {
		f := &files[i]
		d := root
		elems := strings.Split(f.Path, "/")
		for _, elem := range elems[:len(elems)-1] {
			d = d.dir(elem)
		}
		d.children = append(d.children, &node{name: elems[len(elems)-1], file: f})
	}

	// breadth-first, children of each directory contiguous and ordered by
	// name hash, as rcc lays them out
	order := []*node{root}
	for i := 0; i < len(order); i++ {
		n := order[i]
		n.index = i
		if n.file != nil {
			continue
		}
		sort.SliceStable(n.children, func(a, b int) bool {
			return Hash(n.children[a].name) < Hash(n.children[b].name)
		})
		n.childOffset = len(order)
		order = append(order, n.children...)
	}

	var nb, pb, tb bytes.Buffer
	for _, n := range order[1:] {
		n.nameOffset = nb.Len()
		u := utf16.Encode([]rune(n.name))
		binary.Write(&nb, binary.BigEndian, uint16(len(u)))
		binary.Write(&nb, binary.BigEndian, Hash(n.name))
		binary.Write(&nb, binary.BigEndian, u)

		if n.file != nil {
			n.dataOffset = pb.Len()
			stored := store(n.file)
			binary.Write(&pb, binary.BigEndian, uint32(len(stored)))
			pb.Write(stored)
		}
	}

	for _, n := range order {
		binary.Write(&tb, binary.BigEndian, uint32(n.nameOffset))
		if n.file == nil {
			binary.Write(&tb, binary.BigEndian, uint16(2))
			binary.Write(&tb, binary.BigEndian, uint32(len(n.children)))
			binary.Write(&tb, binary.BigEndian, uint32(n.childOffset))
		} else {
			var flags uint16
			switch n.file.Compression {
			case Zlib:
				flags = 1
			case Zstd:
				flags = 4
			}
			binary.Write(&tb, binary.BigEndian, flags)
			binary.Write(&tb, binary.BigEndian, n.file.Country)
			binary.Write(&tb, binary.BigEndian, n.file.Language)
			binary.Write(&tb, binary.BigEndian, uint32(n.dataOffset))
		}
		if version >= 2 {
			var ms uint64
			if n.file != nil && !n.file.ModTime.IsZero() {
				ms = uint64(n.file.ModTime.UnixMilli())
			}
			binary.Write(&tb, binary.BigEndian, ms)
		}
	}

	return tb.Bytes(), nb.Bytes(), pb.Bytes()
}

// RCC encodes files as a standalone .rcc file image.
func RCC(version int, files ...File) []byte {
	tree, names, payload := Build(version, files...)

	hdr := 20
	if version >= 3 {
		hdr += 4
	}
	dataOff := hdr
	namesOff := dataOff + len(payload)
	treeOff := namesOff + len(names)

	var b bytes.Buffer
	b.WriteString("qres")
	binary.Write(&b, binary.BigEndian, int32(version))
	binary.Write(&b, binary.BigEndian, int32(treeOff))
	binary.Write(&b, binary.BigEndian, int32(dataOff))
	binary.Write(&b, binary.BigEndian, int32(namesOff))
	if version >= 3 {
		binary.Write(&b, binary.BigEndian, int32(0))
	}
	b.Write(payload)
	b.Write(names)
	b.Write(tree)
	return b.Bytes()
}

// Hash is qt_hash over the UTF-16 code units of s.
func Hash(s string) uint32 {
	var h uint32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 4) + uint32(c)
		h ^= (h & 0xf0000000) >> 23
		h &= 0x0fffffff
	}
	return h
}

func (n *node) dir(name string) *node {
	for _, c := range n.children {
		if c.file == nil && c.name == name {
			return c
		}
	}
	d := &node{name: name}
	n.children = append(n.children, d)
	return d
}

func store(f *File) []byte {
	switch f.Compression {
	case Zlib:
		var b bytes.Buffer
		binary.Write(&b, binary.BigEndian, uint32(len(f.Data)))
		zw := zlib.NewWriter(&b)
		zw.Write(f.Data)
		zw.Close()
		return b.Bytes()
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			panic(err)
		}
		defer enc.Close()
		return enc.EncodeAll(f.Data, nil)
	default:
		return f.Data
	}
}
