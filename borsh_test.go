package borsh

import (
	"bytes"
	"math"
	"math/big"
	"reflect"
	"testing"
	"testing/quick"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/wire"
)

type MixedStruct struct {
	Val      string
	Mod      int8
	Data     string
	Integers int16
	Float3   float32
	Float6   float64
}

func FuzzEncodeDecode(f *testing.F) {
	f.Add("hello", int8(-3), "world", int16(300), float32(1.5), 2.25)
	f.Fuzz(fuzzMixedTypes)
}

func fuzzMixedTypes(t *testing.T, Val string, Mod int8, Data string, Integers int16, Float3 float32, Float6 float64) {
	val := MixedStruct{Val: Val, Mod: Mod, Data: Data, Integers: Integers, Float3: Float3, Float6: Float6}
	data, err := Marshal(val)
	if !utf8.ValidString(Val) || !utf8.ValidString(Data) || math.IsNaN(float64(Float3)) || math.IsNaN(Float6) {
		require.ErrorIs(t, err, ErrInvalidInput)
		return
	}
	require.NoError(t, err)
	res, err := Decode[MixedStruct](data)
	require.NoError(t, err)
	require.Equal(t, val, res)
}

func FuzzDecode(f *testing.F) {
	f.Add([]byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 'h', 'i'})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Fuzz(func(t *testing.T, data []byte) {
		type Target struct {
			A *uint32
			B []string
			C map[uint16][]byte
			D Result[int64, string]
		}
		v, err := Decode[Target](data)
		if err != nil {
			return
		}
		out, err := Marshal(v)
		require.NoError(t, err)
		again, err := Decode[Target](out)
		require.NoError(t, err)
		require.Equal(t, v, again)
	})
}

func TestConcreteLayout(t *testing.T) {
	type Record struct {
		X uint64
		S string
	}
	data, err := Marshal(Record{X: 1, S: "hi"})
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x01, 0, 0, 0, 0, 0, 0, 0,
		0x02, 0, 0, 0,
		0x68, 0x69,
	}, data)

	d := NewDecoder(data)
	var res Record
	require.NoError(t, d.Decode(&res))
	assert.Equal(t, Record{X: 1, S: "hi"}, res)
	assert.Equal(t, 14, d.Offset())
	assert.Zero(t, d.Remaining())
	require.NoError(t, d.Finish())
}

func TestPrimitiveLayouts(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want []byte
	}{
		{"bool", true, []byte{1}},
		{"u16", uint16(0x0102), []byte{2, 1}},
		{"i32", int32(-2), []byte{0xfe, 0xff, 0xff, 0xff}},
		{"int", int(-1), bytes.Repeat([]byte{0xff}, 8)},
		{"uint", uint(1), []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"f32", float32(1), []byte{0, 0, 0x80, 0x3f}},
		{"string", "ab", []byte{2, 0, 0, 0, 'a', 'b'}},
		{"unit", struct{}{}, []byte{}},
		{"bytes", []byte{9, 8}, []byte{2, 0, 0, 0, 9, 8}},
		{"array", [3]byte{7, 8, 9}, []byte{7, 8, 9}},
		{"u16 array", [2]uint16{1, 2}, []byte{1, 0, 2, 0}},
		{"tuple", struct {
			A uint8
			B bool
		}{3, true}, []byte{3, 1}},
		{"u128", Uint128{Lo: 1, Hi: 2}, []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}},
		{"i128", Int128{Lo: math.MaxUint64, Hi: -1}, bytes.Repeat([]byte{0xff}, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.v)
			require.NoError(t, err)
			require.Equal(t, tt.want, data)
		})
	}
}

func TestOptionAndResult(t *testing.T) {
	x := uint32(7)
	data, err := Marshal(struct{ P *uint32 }{&x})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 7, 0, 0, 0}, data)

	data, err = Marshal(struct{ P *uint32 }{})
	require.NoError(t, err)
	require.Equal(t, []byte{0}, data)

	_, err = Decode[struct{ P *uint32 }]([]byte{2})
	require.ErrorIs(t, err, ErrInvalidDiscriminant)

	data, err = Marshal(Ok[uint8, string](5))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 5}, data)
	data, err = Marshal(Err[uint8, string]("no"))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 2, 0, 0, 0, 'n', 'o'}, data)

	r, err := Decode[Result[uint8, string]](data)
	require.NoError(t, err)
	assert.False(t, r.IsOk)
	assert.Equal(t, "no", r.Err)

	_, err = Decode[Result[uint8, string]]([]byte{2, 0})
	require.ErrorIs(t, err, ErrInvalidDiscriminant)
}

type Message struct {
	Enum
	Ping     struct{}
	Transfer struct {
		To     string
		Amount uint64
	}
	Memo  string
	Point struct {
		Positional
		X, Y int16
	}
}

func TestUnion(t *testing.T) {
	tests := []struct {
		v    Message
		want []byte
	}{
		{Message{Enum: 0}, []byte{0}},
		{Message{Enum: 2, Memo: "m"}, []byte{2, 1, 0, 0, 0, 'm'}},
		{Message{Enum: 3, Point: struct {
			Positional
			X, Y int16
		}{X: 1, Y: -1}}, []byte{3, 1, 0, 0xff, 0xff}},
	}
	for _, tt := range tests {
		data, err := Marshal(tt.v)
		require.NoError(t, err)
		require.Equal(t, tt.want, data)
		res, err := Decode[Message](data)
		require.NoError(t, err)
		require.Equal(t, tt.v, res)
	}

	in := Message{Enum: 1}
	in.Transfer.To = "bob"
	in.Transfer.Amount = 9
	in.Memo = "ignored"
	data, err := Marshal(in)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 3, 0, 0, 0, 'b', 'o', 'b', 9, 0, 0, 0, 0, 0, 0, 0}, data)
	res, err := Decode[Message](data)
	require.NoError(t, err)
	assert.Equal(t, "bob", res.Transfer.To)
	assert.Empty(t, res.Memo, "inactive variants decode as zero values")

	_, err = Decode[Message]([]byte{4})
	require.ErrorIs(t, err, ErrInvalidDiscriminant)

	_, err = Marshal(Message{Enum: 4})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCanonicalOrdering(t *testing.T) {
	a := map[string]uint8{}
	b := map[string]uint8{}
	keys := []string{"pear", "apple", "", "fig", "banana"}
	for i, k := range keys {
		a[k] = uint8(i)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		b[keys[i]] = uint8(i)
	}
	da, err := Marshal(a)
	require.NoError(t, err)
	db, err := Marshal(b)
	require.NoError(t, err)
	require.Equal(t, da, db)

	set, err := Marshal(map[int16]struct{}{3: {}, -1: {}, 2: {}})
	require.NoError(t, err)
	require.Equal(t, []byte{3, 0, 0, 0, 0xff, 0xff, 2, 0, 3, 0}, set)

	m, err := Marshal(map[bool]uint8{true: 1, false: 0})
	require.NoError(t, err)
	require.Equal(t, []byte{2, 0, 0, 0, 0, 0, 1, 1}, m)

	res, err := Decode[map[string]uint8](da)
	require.NoError(t, err)
	require.Equal(t, a, res)
}

func TestOrderedMapKeys(t *testing.T) {
	type key struct {
		A uint8
		B string
	}
	m := map[key]bool{{2, "a"}: true, {1, "b"}: false, {1, "a"}: true}
	data, err := Marshal(m)
	require.NoError(t, err)
	require.Equal(t, []byte{
		3, 0, 0, 0,
		1, 1, 0, 0, 0, 'a', 1,
		1, 1, 0, 0, 0, 'b', 0,
		2, 1, 0, 0, 0, 'a', 1,
	}, data)

	_, err = Marshal(map[[2]float32]uint8{{1, 2}: 1})
	require.NoError(t, err)

	_, err = Marshal(map[*int]uint8{})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestEqualKeysRejected(t *testing.T) {
	type key struct {
		ID   uint8
		Note string `borsh:"-"`
	}
	m := map[key]uint8{{1, "x"}: 1, {1, "y"}: 2}
	_, err := Marshal(m)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoundTrip(t *testing.T) {
	type Inner struct {
		Tag  [4]byte
		Vals []int32
	}
	type Everything struct {
		B    bool
		I8   int8
		I16  int16
		I32  int32
		I64  int64
		I    int
		U8   uint8
		U16  uint16
		U32  uint32
		U64  uint64
		U    uint
		F32  float32
		F64  float64
		S    string
		Bs   []byte
		Opt  *Inner
		Ss   []string
		Arr  [3]uint16
		M    map[string]int64
		Set  map[uint32]struct{}
		Nest []Inner
		Tup  struct {
			A string
			B uint8
		}
	}
	condition := func(z Everything) bool {
		data, err := Marshal(z)
		require.NoError(t, err)
		res := &Everything{}
		require.NoError(t, Unmarshal(data, res))
		return assert.ObjectsAreEqual(z, *res)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestTrailingData(t *testing.T) {
	condition := func(x uint32, s string) bool {
		data, err := Marshal(struct {
			X uint32
			S string
		}{x, s})
		require.NoError(t, err)
		err = Unmarshal(append(data, 0), &struct {
			X uint32
			S string
		}{})
		return assert.ErrorIs(t, err, ErrTrailingData)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestTruncatedInput(t *testing.T) {
	data, err := Marshal(struct {
		A uint64
		S []string
	}{A: 1, S: []string{"x", "yz"}})
	require.NoError(t, err)
	for i := range data {
		_, err := Decode[struct {
			A uint64
			S []string
		}](data[:i])
		require.ErrorIs(t, err, ErrUnexpectedEOF, "prefix of %d bytes", i)
	}
}

func TestAllocationGuard(t *testing.T) {
	huge := []byte{0xff, 0xff, 0xff, 0xff, 1, 2, 3}
	_, err := Decode[[]uint64](huge)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
	_, err = Decode[[]byte](huge)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
	_, err = Decode[string](huge)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
	_, err = Decode[map[uint32]string](huge)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
	_, err = Decode[[][]string](huge)
	require.ErrorIs(t, err, ErrUnexpectedEOF)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 4, e.Offset)
}

type Marker struct{}

type Scratchpad struct {
	Sum int `borsh:"-"`
}

func TestZeroSizeElements(t *testing.T) {
	huge := []byte{0xff, 0xff, 0xff, 0xff}

	set, err := Decode[map[struct{}]struct{}](huge)
	require.NoError(t, err)
	assert.Len(t, set, 1)
	markers, err := Decode[map[Marker]struct{}](huge)
	require.NoError(t, err)
	assert.Len(t, markers, 1)
	_, err = Decode[map[Marker]uint8](huge)
	require.ErrorIs(t, err, ErrUnexpectedEOF)

	units, err := Decode[[]struct{}](huge)
	require.NoError(t, err)
	assert.EqualValues(t, uint32(math.MaxUint32), len(units))

	// No input backs these, and each one takes memory.
	_, err = Decode[[]Scratchpad](huge)
	require.ErrorIs(t, err, ErrInvalidData)

	data, err := Marshal([]Scratchpad{{Sum: 1}, {Sum: 2}, {Sum: 3}})
	require.NoError(t, err)
	require.Equal(t, []byte{3, 0, 0, 0}, data)
	pads, err := Decode[[]Scratchpad](data)
	require.NoError(t, err)
	assert.Equal(t, []Scratchpad{{}, {}, {}}, pads)
}

func TestNaNRejected(t *testing.T) {
	_, err := Marshal(math.NaN())
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = Marshal(struct{ F []float32 }{[]float32{1, float32(math.NaN())}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Decode[float64]([]byte{0, 0, 0, 0, 0, 0, 0xf8, 0x7f})
	require.ErrorIs(t, err, ErrInvalidData)
	_, err = Decode[float32]([]byte{0, 0, 0xc0, 0x7f})
	require.ErrorIs(t, err, ErrInvalidData)

	inf, err := Marshal(math.Inf(-1))
	require.NoError(t, err)
	v, err := Decode[float64](inf)
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, -1))
}

func TestInvalidUTF8(t *testing.T) {
	_, err := Marshal("\xff")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = Decode[string]([]byte{1, 0, 0, 0, 0xff})
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestSkipFields(t *testing.T) {
	type WithSkip struct {
		Cache  map[string]int `borsh:"-"`
		Kept   uint16
		hidden string
		Note   string `borsh:"note,skip"`
	}
	data, err := Marshal(WithSkip{Cache: map[string]int{"x": 1}, Kept: 5, hidden: "h", Note: "n"})
	require.NoError(t, err)
	require.Equal(t, []byte{5, 0}, data)

	res, err := Decode[WithSkip](data)
	require.NoError(t, err)
	assert.Equal(t, WithSkip{Kept: 5}, res)

	type Unencodable struct {
		Ch   chan int `borsh:"-"`
		Kept bool
	}
	_, err = Marshal(Unencodable{Kept: true})
	require.NoError(t, err)
}

func TestUnsupportedTypes(t *testing.T) {
	_, err := Marshal(struct{ F func() }{})
	require.ErrorIs(t, err, ErrUnsupported)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"F"}, e.Path)

	_, err = Marshal(complex(1, 2))
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = Marshal(nil)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestUnmarshalTarget(t *testing.T) {
	data, err := Marshal(uint8(1))
	require.NoError(t, err)
	var v uint8
	require.ErrorIs(t, Unmarshal(data, v), ErrNotPointer)
	require.ErrorIs(t, Unmarshal(data, nil), ErrNotPointer)
	require.ErrorIs(t, Unmarshal(data, (*uint8)(nil)), ErrNotPointer)
	require.NoError(t, Unmarshal(data, &v))
	assert.Equal(t, uint8(1), v)
}

func TestFailedDecodeLeavesTarget(t *testing.T) {
	type Pair struct {
		A uint32
		B string
	}
	res := Pair{A: 42, B: "keep"}
	err := Unmarshal([]byte{1, 0, 0, 0, 5, 0, 0, 0, 'x'}, &res)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
	assert.Equal(t, Pair{A: 42, B: "keep"}, res)
}

func TestTopLevelPointer(t *testing.T) {
	type StructPtr struct {
		Data string
	}
	val := &StructPtr{Data: "Hello"}
	a, err := Marshal(val)
	require.NoError(t, err)
	b, err := Marshal(*val)
	require.NoError(t, err)
	require.Equal(t, append([]byte{1}, b...), a)

	res, err := Decode[*StructPtr](a)
	require.NoError(t, err)
	require.Equal(t, val, res)

	x := uint8(7)
	data, err := Marshal(&x)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 7}, data)
	px, err := Decode[*uint8](data)
	require.NoError(t, err)
	require.Equal(t, &x, px)

	data, err = Marshal((*StructPtr)(nil))
	require.NoError(t, err)
	require.Equal(t, []byte{0}, data)
	none, err := Decode[*StructPtr](data)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestPlatformInts(t *testing.T) {
	c := New(Options{})
	data, err := c.Marshal(int64(math.MaxInt64))
	require.NoError(t, err)
	v, err := Decode[int](data)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt64, v)

	var small struct{ N uint }
	require.NoError(t, c.Unmarshal(bytes.Repeat([]byte{0xff}, 8), &small))
	assert.Equal(t, uint(math.MaxUint), small.N)

	// A 64-bit wire value that does not fit the destination is refused.
	_, dec := signed(8)
	narrow := reflect.New(reflect.TypeFor[int8]()).Elem()
	err = dec(wire.NewReader([]byte{0x2c, 1, 0, 0, 0, 0, 0, 0}), narrow)
	require.ErrorIs(t, err, ErrOverflow)
	assert.Zero(t, narrow.Int())
}

func TestBool(t *testing.T) {
	_, err := Decode[bool]([]byte{2})
	require.ErrorIs(t, err, ErrInvalidDiscriminant)

	lenient := New(Options{LenientBool: true})
	var b bool
	require.NoError(t, lenient.Unmarshal([]byte{2}, &b))
	assert.True(t, b)
}

type Counted struct {
	Items []uint16
	Count int `borsh:"-"`
}

func (c *Counted) BorshInit() { c.Count = len(c.Items) }

type Wrapped struct {
	Enum
	None struct{}
	Some Counted
}

func TestInitHook(t *testing.T) {
	data, err := Marshal(Counted{Items: []uint16{1, 2, 3}, Count: 99})
	require.NoError(t, err)
	res, err := Decode[Counted](data)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)

	data, err = Marshal(Wrapped{Enum: 1, Some: Counted{Items: []uint16{4}}})
	require.NoError(t, err)
	w, err := Decode[Wrapped](data)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Some.Count)

	all, err := Decode[[]Counted](append([]byte{2, 0, 0, 0}, bytes.Repeat(data[1:], 2)...))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[1].Count)
}

type List struct {
	Value uint8
	Next  *List
}

type Tree struct {
	Label    string
	Children []Tree
	Parent   Box[Leaf]
}

type Leaf struct {
	Weight int16
}

func TestRecursiveTypes(t *testing.T) {
	l := List{Value: 1, Next: &List{Value: 2, Next: &List{Value: 3}}}
	data, err := Marshal(l)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 1, 2, 1, 3, 0}, data)
	res, err := Decode[List](data)
	require.NoError(t, err)
	require.Equal(t, l, res)

	tree := Tree{
		Label:  "root",
		Parent: NewBox(Leaf{Weight: -4}),
		Children: []Tree{
			{Label: "a", Parent: NewBox(Leaf{Weight: 1}), Children: []Tree{}},
		},
	}
	data, err = Marshal(tree)
	require.NoError(t, err)
	got, err := Decode[Tree](data)
	require.NoError(t, err)
	require.Equal(t, tree, got)

	_, err = Marshal(Tree{Label: "no parent"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestWideIntegers(t *testing.T) {
	big1 := new(big.Int).Lsh(big.NewInt(1), 100)
	u, err := Uint128FromBig(big1)
	require.NoError(t, err)
	assert.Equal(t, big1.String(), u.String())
	_, err = Uint128FromBig(big.NewInt(-1))
	require.ErrorIs(t, err, ErrInvalidInput)

	neg := new(big.Int).Neg(big1)
	i, err := Int128FromBig(neg)
	require.NoError(t, err)
	assert.Equal(t, neg.String(), i.String())
	_, err = Int128FromBig(new(big.Int).Lsh(big.NewInt(1), 127))
	require.ErrorIs(t, err, ErrInvalidInput)

	data, err := Marshal(map[Int128]bool{i: true, {Lo: 1}: false})
	require.NoError(t, err)
	m, err := Decode[map[Int128]bool](data)
	require.NoError(t, err)
	assert.True(t, m[i])
	assert.False(t, m[Int128{Lo: 1}])
	// The negative key sorts first.
	assert.Equal(t, byte(0xff), data[4+15])
}

func TestEncoderRollback(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.Encode(uint16(1)))
	err := e.Encode(struct {
		A uint32
		F float64
	}{7, math.NaN()})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, []byte{1, 0}, e.Bytes())
	require.NoError(t, e.Encode("z"))
	require.Equal(t, []byte{1, 0, 1, 0, 0, 0, 'z'}, e.Bytes())
	e.Reset()
	assert.Empty(t, e.Bytes())
}

func TestDecoderStream(t *testing.T) {
	e := NewEncoder()
	for i := range 3 {
		require.NoError(t, e.Encode(uint32(i)))
		require.NoError(t, e.Encode([]string{"s"}))
	}
	d := NewDecoder(e.Bytes())
	for i := range 3 {
		n, err := DecodeFrom[uint32](d)
		require.NoError(t, err)
		assert.Equal(t, uint32(i), n)
		s, err := DecodeFrom[[]string](d)
		require.NoError(t, err)
		assert.Equal(t, []string{"s"}, s)
	}
	require.NoError(t, d.Finish())
	_, err := DecodeFrom[uint8](d)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestMarshalAppend(t *testing.T) {
	out, err := MarshalAppend([]byte{0xaa}, uint8(1))
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 1}, out)
}

func TestCodecConcurrentUse(t *testing.T) {
	c := New(Options{})
	type Payload struct {
		ID   uint64
		Tags map[string]struct{}
	}
	done := make(chan error, 8)
	for g := range 8 {
		go func() {
			for i := range 50 {
				p := Payload{ID: uint64(g*100 + i), Tags: map[string]struct{}{"a": {}}}
				data, err := c.Marshal(p)
				if err != nil {
					done <- err
					return
				}
				var out Payload
				if err := c.Unmarshal(data, &out); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for range 8 {
		require.NoError(t, <-done)
	}
}

func BenchmarkZeroAllocs(b *testing.B) {
	type ZeroAllocs struct {
		Int int8
	}
	z := ZeroAllocs{Int: int8(1)}
	e := NewEncoder()
	b.ReportAllocs()
	for b.Loop() {
		e.Reset()
		_ = e.Encode(z)
	}
}

type benchStruct struct {
	Val      []string
	Mod      []int8
	Integers []int16
	Float3   []float32
	Float6   []float64
	Index    map[string]uint32
}

func benchValue() benchStruct {
	return benchStruct{
		Val: []string{"azerty", "hello", "world", "random"},
		Mod: []int8{12, 10, 13, 1}, Integers: []int16{100, 250, 300},
		Float3: []float32{12.13, 16.23, 75.1}, Float6: []float64{100.5, 165.63, 153.5},
		Index: map[string]uint32{"a": 1, "b": 2, "c": 3},
	}
}

func BenchmarkEncoding(b *testing.B) {
	z := benchValue()
	b.ReportAllocs()
	for b.Loop() {
		_, _ = Marshal(z)
	}
}

func BenchmarkDecoding(b *testing.B) {
	z := benchValue()
	res, err := Marshal(z)
	require.NoError(b, err)
	y := &benchStruct{}
	b.ReportAllocs()
	for b.Loop() {
		_ = Unmarshal(res, y)
	}
	require.Equal(b, z, *y)
}
