// Package compactwire frames borsh payloads for storage and transport.
//
// A frame is laid out as
//
//	magic "BW" | type u8 | length u32 | flags u8 | compression u8 |
//	raw length u32 | body | crc32
//
// length counts the whole frame including the checksum. raw length is the
// body size before compression. The CRC-32 (IEEE) covers everything from
// the type byte to the end of the body. All integers are little-endian.
package compactwire

import (
	"fmt"
)

var magic = [2]byte{'B', 'W'}

// Type identifies the kind of frame.
type Type uint8

const (
	TypeData  Type = 1
	TypeError Type = 2
)

func (t Type) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeError:
		return "error"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// Flags describe the body of a data frame.
type Flags uint8

const (
	// FlagSchema marks a body that starts with the encoded schema
	// container of the value that follows.
	FlagSchema Flags = 1 << iota
)

const (
	headerSize  = 2 + 1 + 4 + 1 + 1 + 4
	trailerSize = 4
	// Overhead is the size of an empty frame.
	Overhead = headerSize + trailerSize
)

// DefaultMaxFrame bounds frames accepted by Decode.
const DefaultMaxFrame = 64 << 20

// Limits bounds the resources Decode may commit to one frame.
type Limits struct {
	// MaxFrame is the largest frame, and the largest decompressed body,
	// that is accepted. Zero means DefaultMaxFrame.
	MaxFrame int
}

func (l Limits) maxFrame() int {
	if l.MaxFrame <= 0 {
		return DefaultMaxFrame
	}
	return l.MaxFrame
}

// Frame is a decoded frame. Body is always uncompressed.
type Frame struct {
	Type        Type
	Flags       Flags
	Compression Compression
	Body        []byte
}
