package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/rawbytedev/borsh/pkg/errors"
)

// Reader is a forward-only cursor over a borrowed byte slice. Every read
// checks the remaining length first; a successful read advances the cursor
// and it never rewinds.
type Reader struct {
	buf []byte
	off int

	// LenientBool accepts any nonzero byte as true instead of rejecting it.
	LenientBool bool
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Offset is the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Finish fails with a trailing data error when input remains.
func (r *Reader) Finish() error {
	if n := r.Remaining(); n > 0 {
		return errors.TrailingData(r.off, n)
	}
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, errors.UnexpectedEOF(r.off, n, r.Remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadU128 returns the low and high halves of a 128-bit value.
func (r *Reader) ReadU128() (lo, hi uint64, err error) {
	b, err := r.take(16)
	if err != nil {
		return 0, 0, err
	}
	return binary.LittleEndian.Uint64(b), binary.LittleEndian.Uint64(b[8:]), nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadBool() (bool, error) {
	off := r.off
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch {
	case v == 0:
		return false, nil
	case v == 1 || r.LenientBool:
		return true, nil
	}
	return false, errors.InvalidDiscriminant(off, "bool", v)
}

func (r *Reader) ReadF32() (float32, error) {
	off := r.off
	bits, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	f := math.Float32frombits(bits)
	if math.IsNaN(float64(f)) {
		return 0, errors.NaN(errors.PhaseDecode, off)
	}
	return f, nil
}

func (r *Reader) ReadF64() (float64, error) {
	off := r.off
	bits, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	f := math.Float64frombits(bits)
	if math.IsNaN(f) {
		return 0, errors.NaN(errors.PhaseDecode, off)
	}
	return f, nil
}

// ReadTag reads a discriminant byte that must be below n.
func (r *Reader) ReadTag(what string, n int) (uint8, error) {
	off := r.off
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	if int(v) >= n {
		return 0, errors.InvalidDiscriminant(off, what, v)
	}
	return v, nil
}

// ReadLen reads a u32 element count.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReadRaw returns the next n bytes. The slice aliases the input.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	return r.take(n)
}

// ReadBytes reads a length-prefixed byte sequence into a fresh slice.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}
	off := r.off
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, off, b)
	}
	return string(b), nil
}

// Expect fails fast when n elements of at least elemSize wire bytes each
// cannot possibly fit in the remaining input.
func (r *Reader) Expect(n, elemSize int) error {
	if elemSize <= 0 || n <= 0 {
		return nil
	}
	if n > r.Remaining()/elemSize {
		need := int64(n) * int64(elemSize)
		if need > math.MaxInt32 {
			need = math.MaxInt32
		}
		return errors.UnexpectedEOF(r.off, int(need), r.Remaining())
	}
	return nil
}
