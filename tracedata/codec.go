package tracedata

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/hupe1980/tracemesh/core"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm an encoded snapshot is compressed
// with. The value is written as the first byte of every frame; changing the
// numbers breaks previously written files.
type Compression uint8

const (
	// CompressionNone writes the CBOR payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 favours encode speed. Good for large chrome traces
	// written at the end of every run.
	CompressionLZ4 Compression = 1
	// CompressionZstd favours ratio. Trace events are JSON-like text and
	// compress well.
	CompressionZstd Compression = 2
)

// String returns the human-readable name of a compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses a compression from its string representation.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// ErrUnknownCompression is returned by Decode for an unrecognized frame tag.
var ErrUnknownCompression = errors.New("tracedata: unknown compression tag")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Core deterministic encoding: the same snapshot always yields the
	// same bytes, which keeps stored traces diffable.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("tracedata: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("tracedata: CBOR decoder initialization failed: " + err.Error())
	}
}

type wirePart struct {
	Name   string `cbor:"1,keyasint"`
	Values []any  `cbor:"2,keyasint"`
}

type wireSnapshot struct {
	Parts []wirePart `cbor:"1,keyasint"`
}

// Encode writes s to w as a single frame: one compression byte followed by
// the (possibly compressed) CBOR payload.
func Encode(w io.Writer, s *Snapshot, c Compression) error {
	wire := wireSnapshot{Parts: make([]wirePart, 0, len(s.order))}
	for _, part := range s.order {
		wire.Parts = append(wire.Parts, wirePart{Name: string(part), Values: s.parts[part]})
	}

	// Compressors write lazily, so the header still precedes their output.
	cw, err := compressWriter(w, c)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte{byte(c)}); err != nil {
		_ = cw.Close()
		return fmt.Errorf("tracedata: write frame header: %w", err)
	}

	if err := encMode.NewEncoder(cw).Encode(wire); err != nil {
		_ = cw.Close()
		return fmt.Errorf("tracedata: encode snapshot: %w", err)
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("tracedata: flush %s stream: %w", c, err)
	}

	return nil
}

// Decode reads a frame written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	var header [1]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("tracedata: read frame header: %w", err)
	}

	c := Compression(header[0])

	cr, err := decompressReader(r, c)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	var wire wireSnapshot
	if err := decMode.NewDecoder(cr).Decode(&wire); err != nil {
		return nil, fmt.Errorf("tracedata: decode snapshot: %w", err)
	}

	order := make([]core.TracePart, 0, len(wire.Parts))
	parts := make(map[core.TracePart][]any, len(wire.Parts))
	for _, p := range wire.Parts {
		part := core.TracePart(p.Name)
		order = append(order, part)
		parts[part] = p.Values
	}

	return newSnapshot(order, parts), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("tracedata: create zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

func decompressReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("tracedata: create zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}
