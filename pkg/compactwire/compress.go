package compactwire

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/rawbytedev/borsh/pkg/errors"
)

// Compression identifies how a frame body is compressed. The values are
// part of the frame format.
type Compression uint8

const (
	CompressionNone Compression = 0
	// CompressionLZ4 is LZ4 block compression: fast, modest ratio.
	CompressionLZ4 Compression = 1
	// CompressionZstd is zstd at the default level.
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// ParseCompression parses the name returned by Compression.String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, errors.New(errors.PhaseFrame, errors.KindUnsupported).
		Value(name).
		Detail("unknown compression %q", name).
		Build()
}

// errIncompressible means compression would not shrink the body; the
// frame is then written uncompressed.
var errIncompressible = stderrors.New("compactwire: data is incompressible")

var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compactwire: zstd encoder initialization failed: " + err.Error())
	}
}

// zstdDecoders hold synchronous streaming decoders. Bodies are read through
// them so that output stops at the size the header announces; the window a
// frame may demand is capped at DefaultMaxFrame.
var zstdDecoders = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxWindow(DefaultMaxFrame),
			zstd.WithDecoderMaxMemory(DefaultMaxFrame))
		if err != nil {
			panic("compactwire: zstd decoder initialization failed: " + err.Error())
		}
		return d
	},
}

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseFrame, errors.KindInvalidInput, err, "lz4 compress")
		}
		if n == 0 || n >= len(data) {
			return nil, errIncompressible
		}
		return dst[:n], nil
	case CompressionZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil
	}
	return nil, errors.New(errors.PhaseFrame, errors.KindUnsupported).
		Value(uint8(c)).
		Detail("unsupported compression %s", c).
		Build()
}

// decompress restores a body of exactly rawLen bytes.
func decompress(body []byte, c Compression, rawLen int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(body) != rawLen {
			return nil, sizeMismatch(len(body), rawLen)
		}
		return body, nil
	case CompressionLZ4:
		dst := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(body, dst)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseFrame, errors.KindInvalidData, err, "lz4 decompress")
		}
		if n != rawLen {
			return nil, sizeMismatch(n, rawLen)
		}
		return dst, nil
	case CompressionZstd:
		return decompressZstd(body, rawLen)
	}
	return nil, errors.New(errors.PhaseFrame, errors.KindUnsupported).
		Value(uint8(c)).
		Detail("unsupported compression %s", c).
		Build()
}

func decompressZstd(body []byte, rawLen int) ([]byte, error) {
	d := zstdDecoders.Get().(*zstd.Decoder)
	defer zstdDecoders.Put(d)
	if err := d.Reset(bytes.NewReader(body)); err != nil {
		return nil, errors.Wrap(errors.PhaseFrame, errors.KindInvalidData, err, "zstd decompress")
	}
	out := make([]byte, rawLen)
	n, err := io.ReadFull(d, out)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return nil, sizeMismatch(n, rawLen)
	case err != nil:
		return nil, errors.Wrap(errors.PhaseFrame, errors.KindInvalidData, err, "zstd decompress")
	}
	var extra [1]byte
	if m, err := d.Read(extra[:]); m > 0 {
		return nil, errors.New(errors.PhaseFrame, errors.KindInvalidData).
			Detail("body decompresses past the %d bytes the header says", rawLen).
			Build()
	} else if err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.PhaseFrame, errors.KindInvalidData, err, "zstd decompress")
	}
	return out, nil
}

func sizeMismatch(got, want int) error {
	return errors.New(errors.PhaseFrame, errors.KindInvalidData).
		Detail("body decompressed to %d bytes, header says %d", got, want).
		Build()
}
