package borsh

import (
	"math"
	"math/big"
	"reflect"

	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/shape"
)

// Enum is the discriminant of a tagged union. Declare a union as a named
// struct whose first field is an Enum; every following exported field is a
// variant, and the Enum holds the index of the active one:
//
//	type Message struct {
//		borsh.Enum
//		Ping     struct{}
//		Transfer Transfer
//		Memo     string
//	}
type Enum = shape.Enum

// Positional marks a record whose fields are positional rather than named.
type Positional = shape.Positional

// Initializer is called after a record or union has been decoded.
type Initializer = shape.Initializer

// Box is an owning indirection. It is transparent on the wire.
type Box[T any] struct {
	Value *T
}

func NewBox[T any](v T) Box[T] {
	return Box[T]{Value: &v}
}

func (Box[T]) BorshBoxed() reflect.Type { return reflect.TypeFor[T]() }

// Result is a two-armed outcome. The Err arm encodes with discriminant 0 and
// the Ok arm with 1.
type Result[T, E any] struct {
	IsOk bool
	Ok   T
	Err  E
}

func Ok[T, E any](v T) Result[T, E] {
	return Result[T, E]{IsOk: true, Ok: v}
}

func Err[T, E any](e E) Result[T, E] {
	return Result[T, E]{Err: e}
}

func (Result[T, E]) BorshOutcome() (ok, err reflect.Type) {
	return reflect.TypeFor[T](), reflect.TypeFor[E]()
}

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Lo, Hi uint64
}

func (Uint128) BorshWide() bool { return false }

// Cmp compares u and v, returning -1, 0 or +1.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string { return u.Big().String() }

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	mask64     = new(big.Int).SetUint64(math.MaxUint64)
)

// Uint128FromBig converts b, failing when it is negative or wider than 128 bits.
func Uint128FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 || b.Cmp(maxUint128) > 0 {
		return Uint128{}, errors.InvalidInput(errors.PhaseEncode, "%s overflows u128", b)
	}
	lo := new(big.Int).And(b, mask64).Uint64()
	hi := new(big.Int).Rsh(b, 64).Uint64()
	return Uint128{Lo: lo, Hi: hi}, nil
}

// Int128 is a two's complement signed 128-bit integer.
type Int128 struct {
	Lo uint64
	Hi int64
}

func (Int128) BorshWide() bool { return true }

func (i Int128) Cmp(j Int128) int {
	switch {
	case i.Hi < j.Hi:
		return -1
	case i.Hi > j.Hi:
		return 1
	case i.Lo < j.Lo:
		return -1
	case i.Lo > j.Lo:
		return 1
	}
	return 0
}

func (i Int128) Big() *big.Int {
	b := new(big.Int).SetInt64(i.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

func (i Int128) String() string { return i.Big().String() }

// Int128FromBig converts b, failing when it is outside the i128 range.
func Int128FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(minInt128) < 0 || b.Cmp(maxInt128) > 0 {
		return Int128{}, errors.InvalidInput(errors.PhaseEncode, "%s overflows i128", b)
	}
	lo := new(big.Int).And(b, mask64).Uint64()
	hi := new(big.Int).Rsh(b, 64).Int64()
	return Int128{Lo: lo, Hi: hi}, nil
}
