package arena

import (
	"fmt"

	"github.com/goccy/go-json"
)

// NewJSONCodec creates a human readable codec. Element kinds are written by
// name and payloads as base64 strings.
func NewJSONCodec() IArenaCodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements IArenaCodec using JSON
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see arena.IArenaCodec)
// --------------------------------------------------------------------------

func (j *jsonCodecImpl) Name() string { return CodecJSON }

func (j *jsonCodecImpl) Encode(doc *Document) ([]byte, error) {
	return json.Marshal(doc)
}

func (j *jsonCodecImpl) Decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("invalid json document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
