package arena

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("arena")

// IArenaCodec converts documents to bytes and back.
//
// Decode never panics on malformed input. It returns an error for truncated
// buffers, unknown element kinds and out of range indices, and only returns
// documents that pass Document.Validate.
type IArenaCodec interface {
	// Encode converts a document into bytes.
	Encode(doc *Document) ([]byte, error)
	// Decode converts bytes into a document.
	Decode(data []byte) (*Document, error)
	// Name returns the name the codec is selected by.
	Name() string
}

const (
	CodecProto  = "proto"
	CodecBinary = "binary"
	CodecJSON   = "json"
)

// CodecByName returns the codec with the given name.
func CodecByName(name string) (IArenaCodec, error) {
	switch strings.ToLower(name) {
	case CodecProto, "protobuf":
		return NewProtoCodec(), nil
	case CodecBinary:
		return NewBinaryCodec(), nil
	case CodecJSON:
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (must be one of: %s, %s, %s)", name, CodecProto, CodecBinary, CodecJSON)
	}
}

// Detect picks the codec that produced data: the binary codec by its magic
// bytes, JSON by a leading '{', protobuf otherwise.
func Detect(data []byte) IArenaCodec {
	var c IArenaCodec
	switch trimmed := bytes.TrimLeft(data, " \t\r\n"); {
	case bytes.HasPrefix(data, binaryMagic):
		c = NewBinaryCodec()
	case len(trimmed) > 0 && trimmed[0] == '{':
		c = NewJSONCodec()
	default:
		c = NewProtoCodec()
	}
	plog.Debugf("detected %s codec for %d bytes", c.Name(), len(data))
	return c
}
