// Package png implements the PNG chunk layer: 4-byte type codes with
// their property bits, the length/type/data/CRC chunk record, and the
// signature-prefixed chunk sequence that makes up a file. It validates
// structure and checksums only; image semantics such as pixel data,
// compression and interlacing are out of scope.
package png

import (
	"bytes"
	"errors"
)

// Signature is the 8-byte prefix identifying a byte stream as PNG.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

var (
	// ErrInvalidSignature is returned by Parse when the input does not
	// start with the PNG signature.
	ErrInvalidSignature = errors.New("png: invalid signature")

	// ErrChunkNotFound is returned by RemoveChunk when no chunk carries
	// the requested type.
	ErrChunkNotFound = errors.New("png: chunk not found")
)

// File is an in-memory PNG file: the fixed signature followed by chunks
// in file order. The zero value is a file with no chunks.
//
// File does not interpret chunk semantics, so operations like
// AppendChunk accept sequences a full PNG decoder would reject. Callers
// that need a renderable image keep their edits to ancillary chunks.
type File struct {
	chunks []Chunk
}

// Parse decodes a whole PNG byte stream: the signature, then chunks
// until the input is exhausted. Any malformed chunk fails the parse.
func Parse(b []byte) (*File, error) {
	if len(b) < len(Signature) || !bytes.Equal(b[:len(Signature)], Signature[:]) {
		return nil, ErrInvalidSignature
	}

	f := &File{}
	rest := b[len(Signature):]
	for len(rest) > 0 {
		c, err := ParseChunk(rest)
		if err != nil {
			return nil, err
		}
		f.chunks = append(f.chunks, c)
		rest = rest[chunkOverhead+int(c.length):]
	}
	return f, nil
}

// FromChunks builds a file around an existing chunk sequence, keeping
// its order.
func FromChunks(chunks []Chunk) *File {
	return &File{chunks: chunks}
}

// Bytes serializes the file: the signature followed by every chunk in
// file order. Parse is its inverse.
func (f *File) Bytes() []byte {
	size := len(Signature)
	for i := range f.chunks {
		size += chunkOverhead + len(f.chunks[i].data)
	}
	out := make([]byte, 0, size)
	out = append(out, Signature[:]...)
	for i := range f.chunks {
		out = append(out, f.chunks[i].Bytes()...)
	}
	return out
}

// AppendChunk adds c as the new last chunk. Duplicate types are allowed.
func (f *File) AppendChunk(c Chunk) {
	f.chunks = append(f.chunks, c)
}

// ChunkByType returns the first chunk in file order whose type code
// renders as name, or nil when no chunk matches. The match is on the
// exact 4 bytes, case included.
func (f *File) ChunkByType(name string) *Chunk {
	for i := range f.chunks {
		if f.chunks[i].typ.String() == name {
			return &f.chunks[i]
		}
	}
	return nil
}

// RemoveChunk removes the first chunk in file order whose type code
// renders as name and returns it. The relative order of the remaining
// chunks is unchanged.
func (f *File) RemoveChunk(name string) (Chunk, error) {
	for i := range f.chunks {
		if f.chunks[i].typ.String() == name {
			removed := f.chunks[i]
			f.chunks = append(f.chunks[:i], f.chunks[i+1:]...)
			return removed, nil
		}
	}
	return Chunk{}, ErrChunkNotFound
}

// Chunks returns the chunk sequence in file order. The slice is the
// file's backing storage; callers must not modify it.
func (f *File) Chunks() []Chunk {
	return f.chunks
}
