// Package wire implements the primitive layer of the borsh format: fixed-width
// little-endian integers, strict booleans, NaN-free floats and u32 length
// prefixes, over an append-only Writer and a bounds-checked Reader.
package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/rawbytedev/borsh/pkg/errors"
)

// MaxLen is the largest element count a u32 length prefix can carry.
const MaxLen = math.MaxUint32

// Writer appends encodings to a caller-owned buffer.
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// WriterTo appends to dst without copying it first.
func WriterTo(dst []byte) *Writer {
	return &Writer{buf: dst}
}

// Bytes returns the encoded bytes; the slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) Reset() { w.buf = w.buf[:0] }

func (w *Writer) WriteU8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteU16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *Writer) WriteU32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

func (w *Writer) WriteU64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

// WriteU128 writes a 128-bit value given as its low and high halves.
func (w *Writer) WriteU128(lo, hi uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, lo)
	w.buf = binary.LittleEndian.AppendUint64(w.buf, hi)
}

func (w *Writer) WriteI8(v int8) { w.WriteU8(uint8(v)) }

func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }

func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

func (w *Writer) WriteF32(v float32) error {
	if math.IsNaN(float64(v)) {
		return errors.NaN(errors.PhaseEncode, len(w.buf))
	}
	w.WriteU32(math.Float32bits(v))
	return nil
}

func (w *Writer) WriteF64(v float64) error {
	if math.IsNaN(v) {
		return errors.NaN(errors.PhaseEncode, len(w.buf))
	}
	w.WriteU64(math.Float64bits(v))
	return nil
}

// WriteLen writes a u32 element count.
func (w *Writer) WriteLen(n int) error {
	if n < 0 || uint64(n) > MaxLen {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Value(n).
			Detail("length %d does not fit a u32 prefix", n).
			Build()
	}
	w.WriteU32(uint32(n))
	return nil
}

// WriteRaw appends b without a length prefix.
func (w *Writer) WriteRaw(b []byte) { w.buf = append(w.buf, b...) }

// WriteBytes writes a length-prefixed byte sequence in one copy.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.WriteLen(len(b)); err != nil {
		return err
	}
	w.buf = append(w.buf, b...)
	return nil
}

// WriteString writes a length-prefixed UTF-8 string. Strings that would not
// decode are refused here rather than emitted.
func (w *Writer) WriteString(s string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, len(w.buf), []byte(s))
	}
	if err := w.WriteLen(len(s)); err != nil {
		return err
	}
	w.buf = append(w.buf, s...)
	return nil
}
