package serialization

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/spf13/afero"
)

// FileStore persists values as encoded documents on a filesystem.
type FileStore struct {
	fs    afero.Fs
	codec arena.IArenaCodec
}

// NewFileStore creates a store on fs. Values are written with codec; a nil
// codec writes with the protobuf codec and detects the codec when reading.
func NewFileStore(fs afero.Fs, codec arena.IArenaCodec) *FileStore {
	return &FileStore{fs: fs, codec: codec}
}

// Fs returns the underlying filesystem.
func (s *FileStore) Fs() afero.Fs { return s.fs }

func (s *FileStore) writeCodec() arena.IArenaCodec {
	if s.codec == nil {
		return arena.NewProtoCodec()
	}
	return s.codec
}

// SerializeTo serializes v and writes it to destination.
//
// The document is encoded in memory and written to destination.tmp, which is
// then renamed onto destination. If serialization or encoding fails, the
// filesystem is not touched.
func (s *FileStore) SerializeTo(v value.Value, destination string) error {
	doc, err := Serialize(v)
	if err != nil {
		return err
	}
	data, err := s.writeCodec().Encode(doc)
	if err != nil {
		serializeErrors.Inc()
		return &value.Error{Code: value.ErrCInternal, Msg: "failed to encode document", Cause: err}
	}

	tmp := destination + ".tmp"
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return value.IOError("failed to create "+tmp, err)
	}
	if err := writeAll(f, data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return value.IOError("failed to write "+tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return value.IOError("failed to close "+tmp, err)
	}
	if err := s.fs.Rename(tmp, destination); err != nil {
		_ = s.fs.Remove(tmp)
		return value.IOError("failed to move "+tmp+" to "+destination, err)
	}

	bytesWritten.Add(len(data))
	plog.Infof("wrote %d bytes (%d elements, codec %s) to %s", len(data), len(doc.Elements), s.writeCodec().Name(), destination)
	return nil
}

// DeserializeFrom reads the document at source and reconstructs its value,
// resolving commands in env.
func (s *FileStore) DeserializeFrom(source string, env Environment) (value.Value, error) {
	doc, err := s.ReadDocument(source)
	if err != nil {
		return nil, err
	}
	return Deserialize(doc, env)
}

// ReadDocument reads and decodes the document at source without building values.
func (s *FileStore) ReadDocument(source string) (*arena.Document, error) {
	info, err := s.fs.Stat(source)
	if err != nil {
		return nil, value.IOError("failed to stat "+source, err)
	}
	f, err := s.fs.Open(source)
	if err != nil {
		return nil, value.IOError("failed to open "+source, err)
	}
	defer f.Close()

	buf := bytes.NewBuffer(make([]byte, 0, info.Size()))
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, value.IOError("failed to read "+source, err)
	}
	data := buf.Bytes()
	bytesRead.Add(len(data))

	codec := s.codec
	if codec == nil {
		codec = arena.Detect(data)
	}
	doc, err := codec.Decode(data)
	if err != nil {
		deserializeErrors.Inc()
		return nil, &value.Error{Code: value.ErrCDecode, Msg: "failed to decode " + source + " with codec " + codec.Name(), Cause: err}
	}
	return doc, nil
}

// writeAll writes data advancing by the number of bytes the writer accepted.
// A write that accepts nothing fails with io.ErrShortWrite.
func writeAll(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		data = data[n:]
		if n == 0 {
			if err == nil {
				err = io.ErrShortWrite
			}
			return err
		}
		if err != nil && !errors.Is(err, io.ErrShortWrite) {
			return err
		}
	}
	return nil
}
