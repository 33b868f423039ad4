// Package payload prepares messages for embedding in PNG chunks:
// optional xz compression and splitting into bounded parts so that a
// long message can span several chunks of the same type.
package payload

import (
	"bytes"
	"errors"
	"io"

	boxochunker "github.com/ipfs/boxo/chunker"
	"github.com/ulikunitz/xz"
)

// xz stream header magic, used to tell compressed payloads from plain
// ones when decoding.
var xzHeader = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// ErrInvalidSplitSize is returned by Split and NewSplitter when size is
// not positive.
var ErrInvalidSplitSize = errors.New("payload: split size must be positive")

// Compress encodes data as an xz stream.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(data)
	if err != nil {
		return nil, err
	}

	err = w.Close()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decodes an xz stream produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// IsCompressed reports whether data starts with the xz stream header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, xzHeader)
}

// Splitter yields consecutive parts of a stream.
type Splitter interface {
	// Next returns the next part. It returns io.EOF when the stream is
	// exhausted.
	Next() ([]byte, error)
}

// NewSplitter splits r into parts of at most size bytes. Every part but
// the last is exactly size bytes.
func NewSplitter(r io.Reader, size int64) (Splitter, error) {
	if size <= 0 {
		return nil, ErrInvalidSplitSize
	}
	return &boxoSplitter{
		splitter: boxochunker.NewSizeSplitter(r, size),
	}, nil
}

type boxoSplitter struct {
	splitter boxochunker.Splitter
}

func (s *boxoSplitter) Next() ([]byte, error) {
	return s.splitter.NextBytes()
}

// Split cuts data into parts of at most size bytes, preserving order.
// Empty data yields a single empty part so that a message always
// produces at least one chunk.
func Split(data []byte, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSplitSize
	}
	if len(data) == 0 {
		return [][]byte{{}}, nil
	}

	sp, err := NewSplitter(bytes.NewReader(data), int64(size))
	if err != nil {
		return nil, err
	}

	var parts [][]byte
	for {
		part, err := sp.Next()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
}
