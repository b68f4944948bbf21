package qrc

import (
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
)

// MaxFormatVersion is the newest resource format understood by this package.
const MaxFormatVersion = 3

// NodeFlag is a flag for a Node. Multiple flags can be ORd together.
type NodeFlag uint16

const (
	NodeFlagNone           NodeFlag = 0
	NodeFlagCompressed     NodeFlag = 1
	NodeFlagDirectory      NodeFlag = 2
	NodeFlagCompressedZstd NodeFlag = 4
)

// Node is a single entry of a resource tree index.
//
// Directory nodes point at a contiguous run of child nodes in the tree; file
// nodes point at a length-prefixed blob in the payload.
type Node struct {
	NameOffset uint32
	Flags      NodeFlag

	// directories
	ChildCount  uint32
	ChildOffset uint32 // index of the first child node, not a byte offset

	// files
	Country    Country
	Language   Language
	DataOffset uint32

	// format >= 2, milliseconds since the epoch
	Modified uint64

	Format int // not encoded, carried so children parse with the same layout
}

// NodeSize returns the encoded size of a tree node for the format version.
func NodeSize(format int) int64 {
	if format >= 2 {
		return 22
	}
	return 14
}

// ParseNode reads one tree node from r. If an error occurs, any number of
// bytes may have been read from the reader.
func ParseNode(r io.Reader, format int) (*Node, error) {
	if format < 1 || format > MaxFormatVersion {
		return nil, fmt.Errorf("unsupported resource format %d", format)
	}

	var buf [22]byte
	b := buf[:NodeSize(format)]
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("read node: %w", err)
	}

	n := &Node{
		Format:     format,
		NameOffset: binary.BigEndian.Uint32(b[0:4]),
		Flags:      NodeFlag(binary.BigEndian.Uint16(b[4:6])),
	}
	if err := n.Flags.Valid(); err != nil {
		return nil, fmt.Errorf("read flags: %w", err)
	}

	if n.IsDir() {
		n.ChildCount = binary.BigEndian.Uint32(b[6:10])
		n.ChildOffset = binary.BigEndian.Uint32(b[10:14])
	} else {
		n.Country = Country(binary.BigEndian.Uint16(b[6:8]))
		n.Language = Language(binary.BigEndian.Uint16(b[8:10]))
		n.DataOffset = binary.BigEndian.Uint32(b[10:14])
	}

	if format >= 2 {
		n.Modified = binary.BigEndian.Uint64(b[14:22])
	}
	return n, nil
}

// IsDir returns true if the tree node represents a directory.
func (n Node) IsDir() bool {
	return n.Flags.Has(NodeFlagDirectory)
}

// ModTime returns the file modification time for format version >= 2. On older
// versions, or if rcc did not record one, a zero time is returned.
func (n Node) ModTime() time.Time {
	if n.Format < 2 || n.Modified == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(n.Modified))
}

// Name reads the name of the node from the name table.
func (n Node) Name(names io.ReaderAt) (string, error) {
	var hdr [6]byte
	if _, err := names.ReadAt(hdr[:], int64(n.NameOffset)); err != nil {
		var extra string
		if err == io.EOF {
			extra = " (maybe your offsets are incorrect?)"
		}
		return "", fmt.Errorf("read name header at %#x%s: %w", n.NameOffset, extra, err)
	}
	length := binary.BigEndian.Uint16(hdr[0:2]) // the next 4 bytes are the name hash

	raw := make([]byte, int(length)*2)
	if _, err := names.ReadAt(raw, int64(n.NameOffset)+6); err != nil {
		return "", fmt.Errorf("read utf16 name at %#x (len=%d): %w", n.NameOffset+6, len(raw), err)
	}
	units := make([]uint16, length)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(raw[i*2:])
	}

	name := string(utf16.Decode(units))
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("name is likely incorrect, is invalid utf8 (%q)", name)
	}
	return name, nil
}

// Children parses the child nodes of a directory node. If it is not a
// directory, an error is returned.
func (n Node) Children(tree io.ReaderAt) ([]*Node, error) {
	if !n.IsDir() {
		return nil, fmt.Errorf("is a file, not a directory")
	}

	// the count comes from the tree itself, so grow as nodes actually parse
	c := make([]*Node, 0, min(int(n.ChildCount), 64))
	r := io.NewSectionReader(tree, n.dirTreeOffset(), n.dirSize())
	for i := 0; i < int(n.ChildCount); i++ {
		v, err := ParseNode(r, n.Format)
		if err != nil {
			return nil, fmt.Errorf("parse child (i=%d of %d): %w", i, n.ChildCount, err)
		}
		c = append(c, v)
	}
	return c, nil
}

// Data opens a reader for the original content of the file, and also returns
// the offset/size (relative to the payload) of the stored data, which is
// smaller than the file contents if it was compressed. If the entry is a
// directory, an error is returned.
func (n Node) Data(payload io.ReaderAt) (rc io.ReadCloser, fileOff int64, fileSz int64, err error) {
	if n.IsDir() {
		return nil, 0, 0, fmt.Errorf("is a directory, not a file")
	}
	if err := n.Flags.Valid(); err != nil {
		return nil, 0, 0, fmt.Errorf("invalid flags: %w", err)
	}

	length, err := n.storedLength(payload)
	if err != nil {
		return nil, 0, 0, err
	}

	r := io.NewSectionReader(payload, n.fileDataOffset(), length)
	switch {
	case n.Flags.Has(NodeFlagCompressed):
		// qCompress prefixes the zlib stream with the big-endian original
		// size; qUncompress does not check it strictly, and neither do we.
		var zsz [4]byte
		if _, err := io.ReadFull(r, zsz[:]); err != nil {
			return nil, 0, 0, fmt.Errorf("read qCompress original size header from zlib data: %w", err)
		}
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("open zlib reader: %w", err)
		}
		return zr, n.fileDataOffset() + 4, length - 4, nil
	case n.Flags.Has(NodeFlagCompressedZstd):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("open zstd reader: %w", err)
		}
		return zr.IOReadCloser(), n.fileDataOffset(), length, nil
	default:
		return io.NopCloser(r), n.fileDataOffset(), length, nil
	}
}

// storedLength reads the uint32 length prefix of a file's payload blob.
func (n Node) storedLength(payload io.ReaderAt) (int64, error) {
	var b [4]byte
	if _, err := payload.ReadAt(b[:], int64(n.DataOffset)); err != nil {
		return 0, fmt.Errorf("read data length at %#x: %w", n.DataOffset, err)
	}
	return int64(binary.BigEndian.Uint32(b[:])), nil
}

func (n Node) dirTreeOffset() int64 {
	return int64(n.ChildOffset) * NodeSize(n.Format)
}

func (n Node) dirSize() int64 {
	return int64(n.ChildCount) * NodeSize(n.Format)
}

func (n Node) fileDataOffset() int64 {
	return int64(n.DataOffset) + 4
}

func (n Node) fileSize(payload io.ReaderAt) (int64, error) {
	length, err := n.storedLength(payload)
	if err != nil {
		return 0, err
	}
	if n.Flags.Has(NodeFlagCompressed) {
		length -= 4
	}
	return length, nil
}

func (f NodeFlag) String() string {
	if f == NodeFlagNone {
		return "None"
	}
	var x []string
	if f.Has(NodeFlagCompressed) {
		x = append(x, "Compressed")
	}
	if f.Has(NodeFlagDirectory) {
		x = append(x, "Directory")
	}
	if f.Has(NodeFlagCompressedZstd) {
		x = append(x, "CompressedZstd")
	}
	if r := f.remainder(); r != 0 {
		x = append(x, "0b"+strconv.FormatUint(uint64(r), 2))
	}
	return strings.Join(x, "|")
}

// Has returns true if the provided flag bits are set.
func (f NodeFlag) Has(v NodeFlag) bool {
	return f&v == v
}

// Valid checks if the combination of flags are valid. It does not check the
// format version.
func (f NodeFlag) Valid() error {
	if r := f.remainder(); r != 0 {
		return fmt.Errorf("flag contains unknown bits %#b", r)
	}
	if f.Has(NodeFlagCompressed) && f.Has(NodeFlagCompressedZstd) {
		return fmt.Errorf("flag cannot be Compressed and CompressedZstd at the same time")
	}
	if f.Has(NodeFlagDirectory) && f&(NodeFlagCompressed|NodeFlagCompressedZstd) != 0 {
		return fmt.Errorf("directory cannot be compressed")
	}
	return nil
}

func (f NodeFlag) remainder() NodeFlag {
	return f &^ (NodeFlagCompressed | NodeFlagDirectory | NodeFlagCompressedZstd)
}
