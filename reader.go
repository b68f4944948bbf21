package qrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path/filepath"
	"strings"
	"time"
)

// Reader is a high-level reader for compiled Qt resources. It is safe for
// concurrent use if the underlying readers are.
type Reader struct {
	format int
	tree   io.ReaderAt
	names  io.ReaderAt
	data   io.ReaderAt
	root   *Node

	// positions of the tree and payload in the original image, for Offset
	treeBase int64
	dataBase int64
}

// ReaderEntry is an entry read by a Reader.
type ReaderEntry struct {
	v string
	n *Node
	r *Reader
}

// WalkFunc is the same as filepath.WalkFunc. The path is always separated with
// forward slashes and does not have a leading slash. In addition,
// filepath.SkipDir will also prevent recursion into embedded RCC files if
// present.
type WalkFunc func(path string, entry *ReaderEntry, err error) error

// NewReader initializes a reader for resources embedded in a single image
// (e.g. an executable) at the provided offsets. These are the values passed
// to qRegisterResourceData, relative to r.
func NewReader(r io.ReaderAt, formatVersion int, treeOffset, dataOffset, namesOffset int64) (*Reader, error) {
	return newReader(formatVersion,
		io.NewSectionReader(r, treeOffset, math.MaxInt32),
		io.NewSectionReader(r, namesOffset, math.MaxInt32),
		io.NewSectionReader(r, dataOffset, math.MaxInt32),
		treeOffset, dataOffset)
}

// NewReaderFromRCC initializes a reader for the provided RCC file.
func NewReaderFromRCC(r io.ReaderAt) (*Reader, error) {
	h, err := ParseRCCHeader(io.NewSectionReader(r, 0, math.MaxInt64))
	if err != nil {
		return nil, fmt.Errorf("parse rcc header: %w", err)
	}
	return NewReader(r, int(h.FormatVersion), int64(h.TreeOffset), int64(h.DataOffset), int64(h.NamesOffset))
}

func newReader(format int, tree, names, data io.ReaderAt, treeBase, dataBase int64) (*Reader, error) {
	rd := &Reader{
		format:   format,
		tree:     tree,
		names:    names,
		data:     data,
		treeBase: treeBase,
		dataBase: dataBase,
	}

	n, err := ParseNode(io.NewSectionReader(tree, 0, NodeSize(format)), format)
	if err != nil {
		return nil, fmt.Errorf("parse root node: %w", err)
	}
	if !n.IsDir() {
		return nil, fmt.Errorf("parse root node: root is not a directory")
	}
	rd.root = n

	return rd, nil
}

// FormatVersion returns the resource format version of the tree.
func (r *Reader) FormatVersion() int {
	return r.format
}

// Root returns the unnamed root directory.
func (r *Reader) Root() *ReaderEntry {
	return &ReaderEntry{n: r.root, r: r}
}

// Children returns the top-level files in the resource root.
func (r *Reader) Children() ([]*ReaderEntry, error) {
	return r.Root().Children()
}

// Lookup resolves a slash-separated path relative to the resource root. Empty
// elements are ignored, so "a/b", "/a/b" and "a//b/" are equivalent. When a
// directory holds several files with the same name but different locale
// qualifiers, the unqualified one is preferred. If nothing matches, the error
// wraps fs.ErrNotExist.
func (r *Reader) Lookup(name string) (*ReaderEntry, error) {
	e := r.Root()
	for _, elem := range strings.Split(name, "/") {
		if elem == "" || elem == "." {
			continue
		}
		if !e.IsDir() {
			return nil, fmt.Errorf("lookup %q: %q is not a directory: %w", name, e.Name(), fs.ErrNotExist)
		}
		c, err := e.Children()
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", name, err)
		}
		var match *ReaderEntry
		for _, v := range c {
			if v.v != elem {
				continue
			}
			if match == nil || (!unqualified(match.Constraints()) && unqualified(v.Constraints())) {
				match = v
			}
		}
		if match == nil {
			return nil, fmt.Errorf("lookup %q: %w", name, fs.ErrNotExist)
		}
		e = match
	}
	return e, nil
}

// Walk calls the provided WalkFunc for each entry in the tree, similarly to
// filepath.Walk (including filepath.SkipDir). If rccRecurse is true, nested RCC
// files are opened and treated as a directory.
func (r *Reader) Walk(fn WalkFunc, rccRecurse bool) error {
	return walk(fn, rccRecurse, "", r.Root())
}

// report calls fn for a single path, translating filepath.SkipDir into a
// successful return.
func report(fn WalkFunc, path string, entry *ReaderEntry, err error) error {
	if err := fn(path, entry, err); err != nil {
		if errors.Is(err, filepath.SkipDir) {
			return nil
		}
		return fmt.Errorf("walk %q: %w", path, err)
	}
	return nil
}

// walk is a recursive depth-first helper for Walk.
func walk(fn WalkFunc, rccRecurse bool, path string, entry *ReaderEntry) error {
	if entry.IsDir() {
		c, err := entry.Children()
		if err != nil {
			if path == "" {
				return err
			}
			return report(fn, path, entry, fmt.Errorf("walk: get children for dir %q: %w", path, err))
		}

		// the root itself is not reported
		if path != "" {
			if err := fn(path, entry, nil); err != nil {
				if errors.Is(err, filepath.SkipDir) {
					return nil
				}
				return fmt.Errorf("walk %q: %w", path, err)
			}
		}

		for _, v := range c {
			if err := walk(fn, rccRecurse, strings.TrimLeft(path+"/"+v.Name(), "/"), v); err != nil {
				if path == "" {
					return err
				}
				return fmt.Errorf("walk %q: %w", path, err)
			}
		}
		return nil
	}

	if rccRecurse && filepath.Ext(path) == ".rcc" {
		nested, err := openNestedRCC(entry)
		if err != nil {
			return report(fn, path, entry, fmt.Errorf("walk: nested rcc %q: %w", path, err))
		}
		if err := walk(fn, rccRecurse, path, &ReaderEntry{
			v: entry.v,
			n: nested.root,
			r: nested,
		}); err != nil {
			return fmt.Errorf("walk nested rcc %q: %w", path, err)
		}
		return nil
	}

	return report(fn, path, entry, nil)
}

func openNestedRCC(entry *ReaderEntry) (*Reader, error) {
	d, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer d.Close()

	buf, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("read into memory: %w", err)
	}

	r, err := NewReaderFromRCC(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return r, nil
}

// Name returns the name of the entry.
func (e ReaderEntry) Name() string {
	return e.v
}

// Constraints returns the country/language constraints for the file. A
// directory can contain multiple files with the same name, but different constraints.
func (e ReaderEntry) Constraints() (Country, Language) {
	return e.n.Country, e.n.Language
}

// ModTime returns the modification time of the entry. On format versions < 2,
// a zero time is always returned.
func (e ReaderEntry) ModTime() time.Time {
	return e.n.ModTime()
}

// IsDir returns true if the entry represents a directory.
func (e ReaderEntry) IsDir() bool {
	return e.n.IsDir()
}

// Flags returns the flags set on the underlying node.
func (e ReaderEntry) Flags() NodeFlag {
	return e.n.Flags
}

// Children reads and returns the child entries. If the entry is not a
// directory, an error is returned.
func (e ReaderEntry) Children() ([]*ReaderEntry, error) {
	n, err := e.n.Children(e.r.tree)
	if err != nil {
		return nil, err
	}

	x := make([]*ReaderEntry, len(n))
	for i := range n {
		v, err := n[i].Name(e.r.names)
		if err != nil {
			return nil, fmt.Errorf("parse child %d: read name: %w", i, err)
		}
		x[i] = &ReaderEntry{
			v: v,
			n: n[i],
			r: e.r,
		}
	}

	return x, nil
}

// Open opens a reader for the contents of the entry. If the entry is a
// directory, an error is returned.
func (e ReaderEntry) Open() (io.ReadCloser, error) {
	rc, _, _, err := e.n.Data(e.r.data)
	return rc, err
}

// Offset returns the real offset of the entry's contents relative to the image
// the Reader was created from (for a Bundle, relative to its own buffers). If
// the entry is a directory, the offset points to the first child's tree node.
// If the entry is a file, the offset points to the first byte of stored data
// (immediately after the uint32 size header, plus the 4-byte qCompress zlib
// header if the node has the NodeFlagCompressed flag).
func (e ReaderEntry) Offset() int64 {
	if e.IsDir() {
		return e.r.treeBase + e.n.dirTreeOffset()
	}
	offset := e.r.dataBase + e.n.fileDataOffset()
	if e.n.Flags.Has(NodeFlagCompressed) {
		offset += 4
	}
	return offset
}

// Size returns the real (i.e. as-is, possibly compressed) size of the
// underlying data. If the entry is a directory, the size is the total of all
// child tree nodes (i.e. Offset() + Size() = end of last child). To get the
// uncompressed size, Open() the entry and count the number of bytes read.
func (e ReaderEntry) Size() (int64, error) {
	if e.IsDir() {
		return e.n.dirSize(), nil
	}
	return e.n.fileSize(e.r.data)
}
