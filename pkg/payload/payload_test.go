package payload

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	in := []byte(strings.Repeat("a secret worth compressing ", 100))

	compressed, err := Compress(in)
	require.NoError(t, err)
	assert.True(t, IsCompressed(compressed))
	assert.Less(t, len(compressed), len(in))

	out, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCompressEmpty(t *testing.T) {
	compressed, err := Compress(nil)
	require.NoError(t, err)
	assert.True(t, IsCompressed(compressed))

	out, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestIsCompressed(t *testing.T) {
	assert.False(t, IsCompressed(nil))
	assert.False(t, IsCompressed([]byte("plain text message")))
	assert.False(t, IsCompressed([]byte{0xfd, '7', 'z'}))
}

func TestDecompressRejectsGarbage(t *testing.T) {
	_, err := Decompress([]byte("this is not an xz stream"))
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	parts, err := Split([]byte("abcdefghijklmnopqrst"), 8)
	require.NoError(t, err)

	require.Len(t, parts, 3)
	assert.Equal(t, []byte("abcdefgh"), parts[0])
	assert.Equal(t, []byte("ijklmnop"), parts[1])
	assert.Equal(t, []byte("qrst"), parts[2])
}

func TestSplitExactMultiple(t *testing.T) {
	parts, err := Split([]byte("abcdefgh"), 4)
	require.NoError(t, err)

	require.Len(t, parts, 2)
	assert.Equal(t, []byte("abcd"), parts[0])
	assert.Equal(t, []byte("efgh"), parts[1])
}

func TestSplitSmallerThanSize(t *testing.T) {
	parts, err := Split([]byte("abc"), 64)
	require.NoError(t, err)

	require.Len(t, parts, 1)
	assert.Equal(t, []byte("abc"), parts[0])
}

func TestSplitEmpty(t *testing.T) {
	parts, err := Split(nil, 8)
	require.NoError(t, err)

	require.Len(t, parts, 1)
	assert.Empty(t, parts[0])
}

func TestSplitInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Split([]byte("abc"), size)
		assert.ErrorIs(t, err, ErrInvalidSplitSize, "size %d", size)
	}
}

func TestSplitConcatenationRestoresInput(t *testing.T) {
	in := []byte(strings.Repeat("0123456789", 33))

	parts, err := Split(in, 7)
	require.NoError(t, err)

	var out []byte
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 7)
		out = append(out, p...)
	}
	assert.Equal(t, in, out)
}

func TestSplitterStreams(t *testing.T) {
	sp, err := NewSplitter(bytes.NewReader([]byte("abcdefghij")), 4)
	require.NoError(t, err)

	var parts [][]byte
	for {
		part, err := sp.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		parts = append(parts, part)
	}

	require.Len(t, parts, 3)
	assert.Equal(t, []byte("ij"), parts[2])
}

func TestNewSplitterInvalidSize(t *testing.T) {
	_, err := NewSplitter(bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrInvalidSplitSize)
}
