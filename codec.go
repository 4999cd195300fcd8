package borsh

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/rawbytedev/borsh/internal/common"
	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/shape"
	"github.com/rawbytedev/borsh/pkg/wire"
)

// Options tunes a Codec. The zero value is ready to use.
type Options struct {
	// MaxPrealloc caps, in bytes, the memory reserved for a decoded
	// container before its elements are read. Zero means 4096.
	MaxPrealloc int
	// LenientBool decodes any nonzero bool byte as true. By default only
	// 0 and 1 are accepted.
	LenientBool bool
	// Logger receives plan compilation events. Nil uses the package logger.
	Logger *zap.Logger
}

// Codec compiles and caches an encoder and decoder per Go type. It is safe
// for concurrent use; compiled plans hold no per-call state.
type Codec struct {
	opts  Options
	log   *zap.Logger
	mu    sync.RWMutex
	plans map[reflect.Type]*plan
}

type encoderFunc func(w *wire.Writer, v reflect.Value) error
type decoderFunc func(r *wire.Reader, v reflect.Value) error
type compareFunc func(a, b reflect.Value) int

type plan struct {
	typ   reflect.Type
	class shape.Class
	// wireSize is the fewest bytes any value of typ encodes to. Plans still
	// under construction report an underestimate, which is safe for guards.
	wireSize int
	enc      encoderFunc
	dec      decoderFunc
}

func (p *plan) encode(w *wire.Writer, v reflect.Value) error { return p.enc(w, v) }

func (p *plan) decode(r *wire.Reader, v reflect.Value) error { return p.dec(r, v) }

func New(opts Options) *Codec {
	if opts.MaxPrealloc <= 0 {
		opts.MaxPrealloc = wire.DefaultMaxPrealloc
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Codec{
		opts:  opts,
		log:   log,
		plans: make(map[reflect.Type]*plan),
	}
}

func (c *Codec) getPlan(t reflect.Type) (*plan, error) {
	c.mu.RLock()
	if p, ok := c.plans[t]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check
	if p, ok := c.plans[t]; ok {
		return p, nil
	}

	b := &compiler{codec: c, building: make(map[reflect.Type]*plan)}
	p, err := b.compile(t)
	if err != nil {
		c.log.Debug("plan compilation failed", zap.Stringer("type", t), zap.Error(err))
		return nil, err
	}
	// Plans are published only once the whole type graph compiled.
	for bt, bp := range b.building {
		c.plans[bt] = bp
	}
	c.log.Debug("compiled codec plan",
		zap.Stringer("type", t),
		zap.Int("types", len(b.building)),
		zap.Int("min_size", p.wireSize))
	return p, nil
}

func (c *Codec) reader(data []byte) *wire.Reader {
	r := wire.NewReader(data)
	r.LenientBool = c.opts.LenientBool
	return r
}

// valueOf rejects untyped nil. A pointer is an Option at every level,
// including the top, so Unmarshal into **T reverses Marshal(*T).
func valueOf(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return rv, errors.Unsupported(errors.PhaseEncode, "<nil>", "cannot encode untyped nil")
	}
	return rv, nil
}

func target(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return rv, errors.New(errors.PhaseDecode, errors.KindNotPointer).
			GoType(common.TypeName(reflect.TypeOf(v))).
			Detail("decode target must be a non-nil pointer").
			Build()
	}
	return rv, nil
}

// Marshal encodes v. Passing &v encodes an Option holding v.
func (c *Codec) Marshal(v any) ([]byte, error) {
	w := wire.NewWriter(64)
	if err := c.encodeTo(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// MarshalAppend appends the encoding of v to dst.
func (c *Codec) MarshalAppend(dst []byte, v any) ([]byte, error) {
	w := wire.WriterTo(dst)
	if err := c.encodeTo(w, v); err != nil {
		return dst, err
	}
	return w.Bytes(), nil
}

func (c *Codec) encodeTo(w *wire.Writer, v any) error {
	rv, err := valueOf(v)
	if err != nil {
		return err
	}
	p, err := c.getPlan(rv.Type())
	if err != nil {
		return err
	}
	return p.encode(w, rv)
}

// Unmarshal decodes exactly one value from data into the value v points to
// and fails if any input is left over. v is only written on success.
func (c *Codec) Unmarshal(data []byte, v any) error {
	rv, err := target(v)
	if err != nil {
		return err
	}
	r := c.reader(data)
	out, err := c.decodeFrom(r, rv.Type().Elem())
	if err != nil {
		return err
	}
	if err := r.Finish(); err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}

func (c *Codec) decodeFrom(r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	p, err := c.getPlan(t)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(t).Elem()
	if err := p.decode(r, out); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

// Encoder appends successive values to one reusable buffer.
type Encoder struct {
	c *Codec
	w *wire.Writer
}

func (c *Codec) NewEncoder() *Encoder {
	return &Encoder{c: c, w: wire.NewWriter(256)}
}

// Encode appends v. On failure the buffer is left as it was before the call.
func (e *Encoder) Encode(v any) error {
	mark := e.w.Len()
	if err := e.c.encodeTo(e.w, v); err != nil {
		e.w = wire.WriterTo(e.w.Bytes()[:mark])
		return err
	}
	return nil
}

// Bytes returns everything encoded since the last Reset. The slice is
// reused by later calls.
func (e *Encoder) Bytes() []byte { return e.w.Bytes() }

func (e *Encoder) Reset() { e.w.Reset() }

// Decoder reads successive values from one input, sharing a cursor. It is
// the building block for outer framing: each Decode consumes exactly the
// bytes of one value and leaves the rest for the next.
type Decoder struct {
	c *Codec
	r *wire.Reader
}

func (c *Codec) NewDecoder(data []byte) *Decoder {
	return &Decoder{c: c, r: c.reader(data)}
}

// Decode reads one value into the value v points to. v is only written on
// success.
func (d *Decoder) Decode(v any) error {
	rv, err := target(v)
	if err != nil {
		return err
	}
	out, err := d.c.decodeFrom(d.r, rv.Type().Elem())
	if err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}

// Offset is the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.r.Offset() }

// Remaining is the number of unread bytes.
func (d *Decoder) Remaining() int { return d.r.Remaining() }

// Finish fails if input remains.
func (d *Decoder) Finish() error { return d.r.Finish() }
