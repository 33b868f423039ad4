package png

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"unicode/utf8"
)

// chunkOverhead is the wire size of a chunk with no data: 4 length
// bytes, 4 type bytes, 4 checksum bytes.
const chunkOverhead = 12

var (
	// ErrChunkTooSmall is returned when a buffer cannot hold even an
	// empty chunk.
	ErrChunkTooSmall = errors.New("png: at least 12 bytes are required for a chunk")

	// ErrInvalidChunkType is returned when a parsed chunk carries a type
	// code that fails the naming rules.
	ErrInvalidChunkType = errors.New("png: invalid chunk type")

	// ErrInvalidUTF8 is returned by DataAsString when the chunk data is
	// not text.
	ErrInvalidUTF8 = errors.New("png: chunk data is not valid UTF-8")
)

// TruncatedError is returned when a chunk declares more data bytes than
// the buffer holds.
type TruncatedError struct {
	Declared  uint32
	Available int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("png: chunk declares %d data bytes but only %d remain", e.Declared, e.Available)
}

// CRCMismatchError is returned when the checksum stored in a chunk does
// not match the checksum of its type and data bytes. Expected is the
// stored value, Actual the computed one.
type CRCMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *CRCMismatchError) Error() string {
	return fmt.Sprintf("png: crc mismatch: expected %d, actual %d", e.Expected, e.Actual)
}

// Chunk is one PNG chunk: a length-prefixed, type-tagged unit of data
// followed by a CRC-32 over the type and data bytes. Chunks are
// immutable once built; both constructors establish length and checksum,
// so a Chunk in memory is always internally consistent.
type Chunk struct {
	length uint32
	typ    ChunkType
	data   []byte
	crc    uint32
}

// NewChunk builds a chunk around the given payload, computing length and
// checksum. The type code is taken as-is; callers accepting external
// type names validate with ParseChunkType or ChunkType.IsValid first.
// The chunk takes ownership of data.
func NewChunk(typ ChunkType, data []byte) Chunk {
	return Chunk{
		length: uint32(len(data)),
		typ:    typ,
		data:   data,
		crc:    checksum(typ, data),
	}
}

// ParseChunk decodes one chunk from the start of b. Trailing bytes
// beyond the chunk are ignored, so callers can pass the unparsed
// remainder of a file. The chunk's data is copied out of b.
func ParseChunk(b []byte) (Chunk, error) {
	if len(b) < chunkOverhead {
		return Chunk{}, ErrChunkTooSmall
	}

	length := binary.BigEndian.Uint32(b[0:4])
	var code [4]byte
	copy(code[:], b[4:8])
	typ := NewChunkType(code)
	if !typ.IsValid() {
		return Chunk{}, ErrInvalidChunkType
	}

	// Check the declared length against the buffer before slicing the
	// data out. uint64 math so a hostile length cannot overflow.
	if uint64(len(b)-chunkOverhead) < uint64(length) {
		return Chunk{}, &TruncatedError{Declared: length, Available: len(b) - chunkOverhead}
	}
	n := int(length)

	data := make([]byte, n)
	copy(data, b[8:8+n])

	stored := binary.BigEndian.Uint32(b[8+n : chunkOverhead+n])
	computed := checksum(typ, data)
	if stored != computed {
		return Chunk{}, &CRCMismatchError{Expected: stored, Actual: computed}
	}

	return Chunk{length: length, typ: typ, data: data, crc: stored}, nil
}

// checksum is the CRC-32 (IEEE polynomial) over the type code followed
// by the data bytes.
func checksum(typ ChunkType, data []byte) uint32 {
	code := typ.Bytes()
	crc := crc32.Update(0, crc32.IEEETable, code[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}

// Length returns the number of data bytes.
func (c Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk's type code.
func (c Chunk) Type() ChunkType {
	return c.typ
}

// Data returns the chunk's payload. The slice is the chunk's backing
// storage and must not be modified.
func (c Chunk) Data() []byte {
	return c.data
}

// CRC returns the checksum over the type and data bytes.
func (c Chunk) CRC() uint32 {
	return c.crc
}

// DataAsString decodes the payload as UTF-8 text.
func (c Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", ErrInvalidUTF8
	}
	return string(c.data), nil
}

// Bytes serializes the chunk: big-endian length, type code, data,
// big-endian CRC. ParseChunk is its inverse.
func (c Chunk) Bytes() []byte {
	out := make([]byte, 0, chunkOverhead+len(c.data))
	out = binary.BigEndian.AppendUint32(out, c.length)
	code := c.typ.Bytes()
	out = append(out, code[:]...)
	out = append(out, c.data...)
	out = binary.BigEndian.AppendUint32(out, c.crc)
	return out
}

// String renders a human-readable summary for diagnostics. Use Bytes for
// serialization.
func (c Chunk) String() string {
	return fmt.Sprintf("length: %d, chunk type: %s, data: %v, crc: %d", c.length, c.typ, c.data, c.crc)
}
