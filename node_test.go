package qrc

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeFlag(t *testing.T) {
	for _, tc := range []struct {
		flag  NodeFlag
		str   string
		valid bool
	}{
		{NodeFlagNone, "None", true},
		{NodeFlagCompressed, "Compressed", true},
		{NodeFlagDirectory, "Directory", true},
		{NodeFlagCompressedZstd, "CompressedZstd", true},
		{NodeFlagCompressed | NodeFlagCompressedZstd, "Compressed|CompressedZstd", false},
		{NodeFlagDirectory | NodeFlagCompressed, "Compressed|Directory", false},
		{NodeFlag(8), "0b1000", false},
	} {
		assert.Equal(t, tc.str, tc.flag.String())
		if tc.valid {
			assert.NoError(t, tc.flag.Valid(), tc.str)
		} else {
			assert.Error(t, tc.flag.Valid(), tc.str)
		}
	}
}

func TestParseNode(t *testing.T) {
	t.Run("Directory", func(t *testing.T) {
		b := []byte{
			0, 0, 0, 0x10, // name offset
			0, 2, // flags
			0, 0, 0, 3, // child count
			0, 0, 0, 1, // child offset
		}
		n, err := ParseNode(bytes.NewReader(b), 1)
		require.NoError(t, err)
		assert.True(t, n.IsDir())
		assert.EqualValues(t, 0x10, n.NameOffset)
		assert.EqualValues(t, 3, n.ChildCount)
		assert.EqualValues(t, 1, n.ChildOffset)
		assert.EqualValues(t, 14, n.dirTreeOffset())
		assert.EqualValues(t, 42, n.dirSize())
	})

	t.Run("FileWithModTime", func(t *testing.T) {
		b := []byte{
			0, 0, 0, 0, // name offset
			0, 1, // flags
			0, 82, // country
			0, 42, // language
			0, 0, 0, 8, // data offset
			0, 0, 0x01, 0x7f, 0x00, 0x00, 0x00, 0x00, // modified
		}
		n, err := ParseNode(bytes.NewReader(b), 2)
		require.NoError(t, err)
		assert.False(t, n.IsDir())
		assert.Equal(t, CountryGermany, n.Country)
		assert.Equal(t, LanguageGerman, n.Language)
		assert.EqualValues(t, 8, n.DataOffset)
		assert.Equal(t, time.UnixMilli(0x017f00000000), n.ModTime())
	})

	t.Run("ChildCountPastTree", func(t *testing.T) {
		tree := []byte{
			0, 0, 0, 0,
			0, 2,
			0x7f, 0xff, 0xff, 0xff,
			0, 0, 0, 1,
		}
		n, err := ParseNode(bytes.NewReader(tree), 1)
		require.NoError(t, err)
		_, err = n.Children(bytes.NewReader(tree))
		assert.ErrorContains(t, err, "parse child (i=0 of 2147483647)")
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := ParseNode(bytes.NewReader(make([]byte, 10)), 1)
		assert.Error(t, err)
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		_, err := ParseNode(bytes.NewReader(make([]byte, 22)), 4)
		assert.ErrorContains(t, err, "unsupported resource format 4")
	})

	t.Run("BadFlags", func(t *testing.T) {
		b := make([]byte, 14)
		b[5] = 5
		_, err := ParseNode(bytes.NewReader(b), 1)
		assert.ErrorContains(t, err, "read flags")
	})
}

func TestLocaleString(t *testing.T) {
	assert.Equal(t, "UnitedStates", CountryUnitedStates.String())
	assert.Equal(t, "C", LanguageC.String())
	assert.Equal(t, "Country(999)", Country(999).String())
	assert.Equal(t, "Language(999)", Language(999).String())
}
