package qrc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// RCCHeaderMagic identifies a RCC file.
var RCCHeaderMagic = [4]byte{'q', 'r', 'e', 's'}

// RCCHeader is the header of a standalone Qt resource file. The offsets are
// relative to the start of the file (i.e. the start of the header).
type RCCHeader struct {
	Magic         [4]byte
	FormatVersion int32
	TreeOffset    int32
	DataOffset    int32
	NamesOffset   int32

	// FormatVersion >= 3
	OverallFlags int32
}

// ParseRCCHeader parses the RCC header. If the magic bytes are invalid, an
// error is returned. If an error occurs, any number of bytes may have been read
// from the reader.
func ParseRCCHeader(r io.Reader) (*RCCHeader, error) {
	var h RCCHeader

	if _, err := io.ReadFull(r, h.Magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if h.Magic != RCCHeaderMagic {
		return nil, fmt.Errorf("invalid magic %q", h.Magic[:])
	}

	for _, f := range []struct {
		name string
		v    *int32
	}{
		{"format version", &h.FormatVersion},
		{"tree offset", &h.TreeOffset},
		{"data offset", &h.DataOffset},
		{"names offset", &h.NamesOffset},
	} {
		if err := binary.Read(r, binary.BigEndian, f.v); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
	}

	if h.FormatVersion < 1 || h.FormatVersion > MaxFormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", h.FormatVersion)
	}

	if h.FormatVersion >= 3 {
		if err := binary.Read(r, binary.BigEndian, &h.OverallFlags); err != nil {
			return nil, fmt.Errorf("read overall flags: %w", err)
		}
	}

	return &h, nil
}
