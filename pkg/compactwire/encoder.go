package compactwire

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/rawbytedev/borsh"
	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/wire"
)

// EncodeData frames body as a data frame. When c would not shrink the
// body, the frame is written uncompressed.
func EncodeData(body []byte, flags Flags, c Compression) ([]byte, error) {
	return AppendData(nil, body, flags, c)
}

// AppendData appends a data frame to dst.
func AppendData(dst, body []byte, flags Flags, c Compression) ([]byte, error) {
	packed, err := compress(body, c)
	if err == errIncompressible {
		packed, c = body, CompressionNone
	} else if err != nil {
		return dst, err
	}
	return appendFrame(dst, TypeData, flags, c, len(body), packed)
}

// EncodeError builds an error frame carrying an application code and a
// message.
func EncodeError(code uint8, message string) ([]byte, error) {
	w := wire.NewWriter(5 + len(message))
	w.WriteU8(code)
	if err := w.WriteString(message); err != nil {
		return nil, err
	}
	return appendFrame(nil, TypeError, 0, CompressionNone, w.Len(), w.Bytes())
}

func appendFrame(dst []byte, t Type, flags Flags, c Compression, rawLen int, body []byte) ([]byte, error) {
	total := Overhead + len(body)
	if uint64(total) > math.MaxUint32 || uint64(rawLen) > math.MaxUint32 {
		return dst, errors.New(errors.PhaseFrame, errors.KindOverflow).
			Detail("frame of %d bytes exceeds the u32 length field", total).
			Build()
	}
	start := len(dst)
	w := wire.WriterTo(dst)
	w.WriteRaw(magic[:])
	w.WriteU8(uint8(t))
	w.WriteU32(uint32(total))
	w.WriteU8(uint8(flags))
	w.WriteU8(uint8(c))
	w.WriteU32(uint32(rawLen))
	w.WriteRaw(body)

	out := w.Bytes()
	crc := crc32.ChecksumIEEE(out[start+len(magic):])
	return binary.LittleEndian.AppendUint32(out, crc), nil
}

// Packer frames borsh values.
type Packer struct {
	Codec       *borsh.Codec
	Compression Compression
	// Schema prefixes every value with its schema container so that a
	// reader can check or inspect it without the Go type.
	Schema bool
}

// Pack encodes v and frames it.
func (p Packer) Pack(v any) ([]byte, error) {
	c := p.Codec
	if c == nil {
		c = borsh.Default()
	}
	var (
		body  []byte
		flags Flags
		err   error
	)
	if p.Schema {
		flags |= FlagSchema
		body, err = c.MarshalWithSchema(v)
	} else {
		body, err = c.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return EncodeData(body, flags, p.Compression)
}
