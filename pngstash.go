// Package pngstash hides, recovers and removes messages stored in PNG
// chunks. It is the embedding-friendly surface over pkg/png; the
// command line in cmd/pngstash adds file handling, compression,
// splitting and the vault on top.
package pngstash

import (
	"github.com/i5heu/pngstash/pkg/png"
)

// Version of the pngstash tool and library.
const Version = "0.1.0"

// Encode appends a chunk of type typeName carrying message and returns
// the rewritten file bytes.
func Encode(data []byte, typeName, message string) ([]byte, error) {
	typ, err := png.ParseChunkType(typeName)
	if err != nil {
		return nil, err
	}
	f, err := png.Parse(data)
	if err != nil {
		return nil, err
	}

	f.AppendChunk(png.NewChunk(typ, []byte(message)))
	return f.Bytes(), nil
}

// Decode returns the message stored in the first chunk of type
// typeName.
func Decode(data []byte, typeName string) (string, error) {
	f, err := png.Parse(data)
	if err != nil {
		return "", err
	}

	c := f.ChunkByType(typeName)
	if c == nil {
		return "", png.ErrChunkNotFound
	}
	return c.DataAsString()
}

// Remove deletes the first chunk of type typeName and returns the
// rewritten file bytes along with the removed chunk.
func Remove(data []byte, typeName string) ([]byte, png.Chunk, error) {
	f, err := png.Parse(data)
	if err != nil {
		return nil, png.Chunk{}, err
	}

	removed, err := f.RemoveChunk(typeName)
	if err != nil {
		return nil, png.Chunk{}, err
	}
	return f.Bytes(), removed, nil
}

// Chunks lists every chunk of the file in order.
func Chunks(data []byte) ([]png.Chunk, error) {
	f, err := png.Parse(data)
	if err != nil {
		return nil, err
	}
	return f.Chunks(), nil
}
