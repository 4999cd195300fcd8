package compactwire

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/rawbytedev/borsh"
	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/wire"
)

// Decode parses exactly one frame. Any byte after the frame is an error;
// use Next to walk a buffer of consecutive frames.
func Decode(data []byte, lim Limits) (Frame, error) {
	f, n, err := Next(data, lim)
	if err != nil {
		return Frame{}, err
	}
	if n != len(data) {
		return Frame{}, errors.New(errors.PhaseFrame, errors.KindTrailingData).
			Offset(n).
			Detail("unexpected %d bytes after frame", len(data)-n).
			Build()
	}
	return f, nil
}

// Next parses the frame at the front of data and returns it with the number
// of bytes it occupied.
func Next(data []byte, lim Limits) (Frame, int, error) {
	if len(data) < Overhead {
		return Frame{}, 0, errors.New(errors.PhaseFrame, errors.KindUnexpectedEOF).
			Detail("need %d header bytes, have %d", Overhead, len(data)).
			Build()
	}
	if data[0] != magic[0] || data[1] != magic[1] {
		return Frame{}, 0, errors.New(errors.PhaseFrame, errors.KindInvalidData).
			Value(data[:2]).
			Detail("bad magic %x", data[:2]).
			Build()
	}
	r := wire.NewReader(data[len(magic):headerSize])
	// The header slice is long enough for every read below.
	t, _ := r.ReadU8()
	total, _ := r.ReadU32()
	flags, _ := r.ReadU8()
	c, _ := r.ReadU8()
	rawLen, _ := r.ReadU32()

	limit := lim.maxFrame()
	switch {
	case int(total) < Overhead:
		return Frame{}, 0, errors.New(errors.PhaseFrame, errors.KindInvalidData).
			Value(total).
			Detail("frame length %d is shorter than the header", total).
			Build()
	case int(total) > limit || int(rawLen) > limit:
		return Frame{}, 0, errors.New(errors.PhaseFrame, errors.KindInvalidData).
			Value(total).
			Detail("frame of %d bytes (%d uncompressed) exceeds limit %d", total, rawLen, limit).
			Build()
	case int(total) > len(data):
		return Frame{}, 0, errors.New(errors.PhaseFrame, errors.KindUnexpectedEOF).
			Detail("frame length %d, have %d bytes", total, len(data)).
			Build()
	}

	end := int(total) - trailerSize
	want := binary.LittleEndian.Uint32(data[end:])
	if got := crc32.ChecksumIEEE(data[len(magic):end]); got != want {
		return Frame{}, 0, errors.New(errors.PhaseFrame, errors.KindInvalidData).
			Detail("crc mismatch: computed %08x, frame carries %08x", got, want).
			Build()
	}

	body, err := decompress(data[headerSize:end], Compression(c), int(rawLen))
	if err != nil {
		return Frame{}, 0, err
	}
	return Frame{
		Type:        Type(t),
		Flags:       Flags(flags),
		Compression: Compression(c),
		Body:        body,
	}, int(total), nil
}

// ErrorBody returns the code and message of an error frame.
func (f Frame) ErrorBody() (uint8, string, error) {
	if f.Type != TypeError {
		return 0, "", errors.New(errors.PhaseFrame, errors.KindInvalidInput).
			Detail("%s frame is not an error frame", f.Type).
			Build()
	}
	r := wire.NewReader(f.Body)
	code, err := r.ReadU8()
	if err != nil {
		return 0, "", err
	}
	msg, err := r.ReadString()
	if err != nil {
		return 0, "", err
	}
	if err := r.Finish(); err != nil {
		return 0, "", err
	}
	return code, msg, nil
}

// Unpacker reverses Packer.
type Unpacker struct {
	Codec  *borsh.Codec
	Limits Limits
}

// Unpack decodes one framed value into the value v points to. A schema
// prefix, when the frame has one, must match v's type.
func (u Unpacker) Unpack(data []byte, v any) error {
	f, err := Decode(data, u.Limits)
	if err != nil {
		return err
	}
	if f.Type != TypeData {
		return errors.New(errors.PhaseFrame, errors.KindInvalidInput).
			Detail("expected a data frame, got %s", f.Type).
			Build()
	}
	c := u.Codec
	if c == nil {
		c = borsh.Default()
	}
	if f.Flags&FlagSchema != 0 {
		return c.UnmarshalWithSchema(f.Body, v)
	}
	return c.Unmarshal(f.Body, v)
}
