package borsh

import (
	"github.com/zeebo/blake3"
)

// Hash is a BLAKE3-256 digest.
type Hash [32]byte

// Digest hashes the canonical encoding of v. Two values have the same
// digest exactly when they encode to the same bytes, so maps and sets
// hash independently of iteration order.
func Digest(v any) (Hash, error) {
	return Default().Digest(v)
}

// SchemaFingerprint hashes the encoded schema container of v's type.
// Types that agree on wire layout and naming share a fingerprint.
func SchemaFingerprint(v any) (Hash, error) {
	return Default().SchemaFingerprint(v)
}

func (c *Codec) Digest(v any) (Hash, error) {
	data, err := c.Marshal(v)
	if err != nil {
		return Hash{}, err
	}
	return blake3.Sum256(data), nil
}

func (c *Codec) SchemaFingerprint(v any) (Hash, error) {
	sc, err := c.SchemaOf(v)
	if err != nil {
		return Hash{}, err
	}
	data, err := c.Marshal(*sc)
	if err != nil {
		return Hash{}, err
	}
	return blake3.Sum256(data), nil
}
