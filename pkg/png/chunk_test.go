package png

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMessage  = "This is where your secret message will be!"
	testChunkCRC = 2882656334
)

func testChunkBytes() []byte {
	data := []byte(testMessage)
	out := make([]byte, 0, chunkOverhead+len(data))
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, "RuSt"...)
	out = append(out, data...)
	out = binary.BigEndian.AppendUint32(out, testChunkCRC)
	return out
}

func TestNewChunk(t *testing.T) {
	c := NewChunk(mustChunkType(t, "RuSt"), []byte(testMessage))

	assert.Equal(t, uint32(42), c.Length())
	assert.Equal(t, "RuSt", c.Type().String())
	assert.Equal(t, uint32(testChunkCRC), c.CRC())
}

func TestParseChunk(t *testing.T) {
	c, err := ParseChunk(testChunkBytes())
	require.NoError(t, err)

	assert.Equal(t, uint32(42), c.Length())
	assert.Equal(t, "RuSt", c.Type().String())
	assert.Equal(t, uint32(testChunkCRC), c.CRC())

	msg, err := c.DataAsString()
	require.NoError(t, err)
	assert.Equal(t, testMessage, msg)
}

func TestChunkRoundTrip(t *testing.T) {
	c := NewChunk(mustChunkType(t, "RuSt"), []byte(testMessage))

	parsed, err := ParseChunk(c.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestChunkEmptyData(t *testing.T) {
	c := NewChunk(mustChunkType(t, "IEND"), []byte{})

	assert.Equal(t, uint32(0), c.Length())
	assert.Len(t, c.Bytes(), chunkOverhead)

	parsed, err := ParseChunk(c.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestParseChunkTooSmall(t *testing.T) {
	buf := testChunkBytes()
	for _, n := range []int{0, 1, 4, 8, 11} {
		_, err := ParseChunk(buf[:n])
		assert.ErrorIs(t, err, ErrChunkTooSmall, "%d bytes", n)
	}
}

func TestParseChunkTruncated(t *testing.T) {
	// 20 bytes leave room for 8 data bytes once length, type and CRC
	// are accounted for; the chunk declares 42.
	_, err := ParseChunk(testChunkBytes()[:20])

	var truncErr *TruncatedError
	require.ErrorAs(t, err, &truncErr)
	assert.Equal(t, uint32(42), truncErr.Declared)
	assert.Equal(t, 8, truncErr.Available)
}

func TestParseChunkInvalidType(t *testing.T) {
	buf := testChunkBytes()
	buf[6] = '1'
	_, err := ParseChunk(buf)
	assert.ErrorIs(t, err, ErrInvalidChunkType)

	// Reserved bit set fails the type check before the checksum is
	// even looked at.
	buf = testChunkBytes()
	buf[6] = 's'
	_, err = ParseChunk(buf)
	assert.ErrorIs(t, err, ErrInvalidChunkType)
}

func TestParseChunkBadCRC(t *testing.T) {
	data := []byte(testMessage)
	buf := make([]byte, 0, chunkOverhead+len(data))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	buf = append(buf, "RuSt"...)
	buf = append(buf, data...)
	buf = binary.BigEndian.AppendUint32(buf, testChunkCRC-1)

	_, err := ParseChunk(buf)
	var crcErr *CRCMismatchError
	require.ErrorAs(t, err, &crcErr)
	assert.Equal(t, uint32(testChunkCRC-1), crcErr.Expected)
	assert.Equal(t, uint32(testChunkCRC), crcErr.Actual)
}

func TestParseChunkDetectsCorruption(t *testing.T) {
	// Flip the case bit of the first type byte: still a valid code,
	// but the stored checksum no longer matches.
	buf := testChunkBytes()
	buf[4] ^= propertyBit
	_, err := ParseChunk(buf)
	var crcErr *CRCMismatchError
	assert.ErrorAs(t, err, &crcErr)

	// Corrupt one data byte.
	buf = testChunkBytes()
	buf[20] ^= 0xff
	_, err = ParseChunk(buf)
	assert.ErrorAs(t, err, &crcErr)
}

func TestParseChunkIgnoresTrailingBytes(t *testing.T) {
	buf := append(testChunkBytes(), 0xde, 0xad, 0xbe, 0xef)

	c, err := ParseChunk(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), c.Length())
	assert.Equal(t, uint32(testChunkCRC), c.CRC())
}

func TestParseChunkCopiesData(t *testing.T) {
	buf := testChunkBytes()
	c, err := ParseChunk(buf)
	require.NoError(t, err)

	buf[8] ^= 0xff
	msg, err := c.DataAsString()
	require.NoError(t, err)
	assert.Equal(t, testMessage, msg)
}

func TestDataAsStringRejectsBinary(t *testing.T) {
	c := NewChunk(mustChunkType(t, "RuSt"), []byte{0xff, 0xfe, 0x01})

	_, err := c.DataAsString()
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestChunkString(t *testing.T) {
	c := NewChunk(mustChunkType(t, "RuSt"), []byte(testMessage))

	s := c.String()
	assert.Contains(t, s, "length: 42")
	assert.Contains(t, s, "chunk type: RuSt")
	assert.Contains(t, s, "crc: 2882656334")
}
