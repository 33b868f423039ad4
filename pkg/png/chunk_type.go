package png

import (
	"errors"
	"fmt"
)

// Bit 5 of each type byte carries one property flag per the PNG
// chunk naming conventions. For ASCII letters it is the case bit.
const propertyBit = 1 << 5

// ErrInvalidCharacter is returned by ParseChunkType when the type string
// contains a byte outside A-Z and a-z.
var ErrInvalidCharacter = errors.New("png: chunk type must consist of ASCII letters")

// TypeLengthError is returned by ParseChunkType when the type string is
// not exactly 4 bytes long.
type TypeLengthError struct {
	Length int
}

func (e *TypeLengthError) Error() string {
	return fmt.Sprintf("png: chunk type must be 4 bytes, got %d", e.Length)
}

// ChunkType is the 4-byte type code of a PNG chunk, e.g. "IHDR".
//
// The case of each byte encodes one property of the chunk. A ChunkType
// can hold any 4 bytes so that data already in memory round-trips;
// semantic validation happens in ParseChunkType for external input and
// in IsValid when parsing chunks off the wire.
type ChunkType struct {
	code [4]byte
}

// NewChunkType builds a ChunkType from raw bytes. It never fails, use
// IsValid to check the code against the naming rules.
func NewChunkType(code [4]byte) ChunkType {
	return ChunkType{code: code}
}

// ParseChunkType builds a ChunkType from its text form. The string must
// be exactly 4 ASCII letters.
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, &TypeLengthError{Length: len(s)}
	}
	var code [4]byte
	copy(code[:], s)
	for _, c := range code {
		if !isLetter(c) {
			return ChunkType{}, ErrInvalidCharacter
		}
	}
	return ChunkType{code: code}, nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Bytes returns the raw type code.
func (t ChunkType) Bytes() [4]byte {
	return t.code
}

// IsValid reports whether the code is 4 ASCII letters with the reserved
// bit clear. Chunks carrying an invalid type are rejected during parsing
// even when their checksum matches.
func (t ChunkType) IsValid() bool {
	for _, c := range t.code {
		if !isLetter(c) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// IsCritical reports whether decoders must understand the chunk to
// render the image. Encoded in bit 5 of the first byte: uppercase means
// critical.
func (t ChunkType) IsCritical() bool {
	return t.code[0]&propertyBit == 0
}

// IsPublic reports whether the type belongs to the public registry
// rather than a private application. Encoded in bit 5 of the second
// byte: uppercase means public.
func (t ChunkType) IsPublic() bool {
	return t.code[1]&propertyBit == 0
}

// IsReservedBitValid reports whether bit 5 of the third byte is clear.
// The conventions reserve this bit and require it unset; types violating
// it fail IsValid.
func (t ChunkType) IsReservedBitValid() bool {
	return t.code[2]&propertyBit == 0
}

// IsSafeToCopy reports whether editors that do not recognize the chunk
// may carry it over unchanged. Encoded in bit 5 of the fourth byte:
// lowercase means safe to copy.
func (t ChunkType) IsSafeToCopy() bool {
	return t.code[3]&propertyBit != 0
}

// String returns the type code as text.
func (t ChunkType) String() string {
	return string(t.code[:])
}
