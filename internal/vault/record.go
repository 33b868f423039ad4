package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Protobuf field numbers of a stored record. The vault can be read by
// any protobuf implementation given these.
const (
	fieldPath      = 1
	fieldChunkType = 2
	fieldMessage   = 3
	fieldFoundAt   = 4
)

// Record is one recovered message: where it was found, under which
// chunk type, and the decoded payload.
type Record struct {
	Path      string
	ChunkType string
	Message   []byte
	FoundAt   time.Time
}

// ID derives the record's storage key: the hex SHA-256 over path, chunk
// type and message. The same find stored twice lands on the same key.
func (r Record) ID() string {
	h := sha256.New()
	h.Write([]byte(r.Path))
	h.Write([]byte{0})
	h.Write([]byte(r.ChunkType))
	h.Write([]byte{0})
	h.Write(r.Message)
	return hex.EncodeToString(h.Sum(nil))
}

// recordToByte encodes a record on the protobuf wire format.
func recordToByte(r Record) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldPath, protowire.BytesType)
	b = protowire.AppendString(b, r.Path)
	b = protowire.AppendTag(b, fieldChunkType, protowire.BytesType)
	b = protowire.AppendString(b, r.ChunkType)
	b = protowire.AppendTag(b, fieldMessage, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Message)
	b = protowire.AppendTag(b, fieldFoundAt, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.FoundAt.Unix()))
	return b
}

// byteToRecord decodes a record from the protobuf wire format. Unknown
// fields are skipped so that newer vault versions stay readable.
func byteToRecord(b []byte) (Record, error) {
	var r Record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, fmt.Errorf("vault: decoding record: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldPath && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return Record{}, fmt.Errorf("vault: decoding record path: %w", protowire.ParseError(m))
			}
			r.Path = v
			b = b[m:]
		case num == fieldChunkType && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return Record{}, fmt.Errorf("vault: decoding record chunk type: %w", protowire.ParseError(m))
			}
			r.ChunkType = v
			b = b[m:]
		case num == fieldMessage && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return Record{}, fmt.Errorf("vault: decoding record message: %w", protowire.ParseError(m))
			}
			r.Message = append([]byte(nil), v...)
			b = b[m:]
		case num == fieldFoundAt && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return Record{}, fmt.Errorf("vault: decoding record timestamp: %w", protowire.ParseError(m))
			}
			r.FoundAt = time.Unix(int64(v), 0)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return Record{}, fmt.Errorf("vault: decoding record field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}
