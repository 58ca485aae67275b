package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the archive's payload compression.
type Compression int

const (
	// NoCompression stores the codec-encoded payload verbatim.
	NoCompression Compression = iota
	// Gzip compresses with klauspost/compress's gzip, a drop-in
	// accelerated replacement for the standard library's implementation.
	Gzip
	// LZ4 compresses with pierrec/lz4, trading ratio for speed.
	LZ4
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// compress applies the selected compression to data.
func compress(alg Compression, data []byte) ([]byte, error) {
	switch alg {
	case NoCompression:
		return data, nil
	case Gzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("snapshot: unknown compression %d", alg)
	}
}

// decompress reverses compress.
func decompress(alg Compression, data []byte) ([]byte, error) {
	switch alg {
	case NoCompression:
		return data, nil
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case LZ4:
		r := lz4.NewReader(bytes.NewReader(data))
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("snapshot: unknown compression %d", alg)
	}
}
