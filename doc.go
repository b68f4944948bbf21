// Package qrc registers compiled Qt resources with the Qt runtime and reads
// them back from Go.
//
// A compiled resource is a triple of byte buffers (a tree index, a name table
// and a payload) plus a format version, as emitted by Qt's rcc tool either as
// a standalone .rcc file or embedded in an application binary. The triple is
// handed to qRegisterResourceData by RegisterResourceData, and recorded in a
// Go-side Registry so the same resources can be looked up without Qt.
//
// Resource formats 1-3 are supported. Files can be compressed using zlib or
// zstd, and may carry language/country qualifiers.
package qrc
