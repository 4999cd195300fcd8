package wire

import "github.com/rawbytedev/borsh/pkg/errors"

// DefaultMaxPrealloc is the default ceiling, in bytes, on memory reserved up
// front for a decoded container before any element has been read.
const DefaultMaxPrealloc = 4096

// Cautious clamps an untrusted element count to a capacity worth reserving:
// no more than declared, no more than the remaining input could hold at
// wireSize bytes per element, and no more than ceiling bytes of memory at
// memSize bytes per element. Zero-size elements count as one byte, since
// maps still spend memory per slot. The result is never below 1.
func Cautious(declared, remaining, wireSize, memSize, ceiling int) int {
	c := declared
	if wireSize > 0 {
		c = min(c, remaining/wireSize)
	}
	c = min(c, ceiling/max(memSize, 1))
	return max(c, 1)
}

// Unbacked fails when n elements that encode to zero bytes would take more
// than ceiling bytes of memory. No input backs such elements, so the
// declared count alone would decide the allocation.
func (r *Reader) Unbacked(n, memSize, ceiling int) error {
	if memSize <= 0 || n <= ceiling/memSize {
		return nil
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Offset(r.off).
		Value(n).
		Detail("%d zero-size elements would need %d bytes, limit is %d", n, int64(n)*int64(memSize), ceiling).
		Build()
}
