package serialization

import (
	"io"
	"os"
	"testing"

	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/spf13/afero"
)

// --------------------------------------------------------------------------
// Helper types
// --------------------------------------------------------------------------

// limitedFs hands out files that accept at most limit bytes per write
type limitedFs struct {
	afero.Fs
	limit int
}

func (l limitedFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := l.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &limitedFile{File: f, limit: l.limit}, nil
}

type limitedFile struct {
	afero.File
	limit int
}

func (f *limitedFile) Write(p []byte) (int, error) {
	if f.limit == 0 {
		return 0, nil
	}
	if len(p) > f.limit {
		n, err := f.File.Write(p[:f.limit])
		if err != nil {
			return n, err
		}
		return n, io.ErrShortWrite
	}
	return f.File.Write(p)
}

func sampleValue() value.Value {
	d := value.NewDict(value.StringType, value.AnyType)
	l, _ := value.ListOf(value.FloatType, value.Float(1.5), value.Float(2.5))
	_ = d.Insert(value.String("numbers"), l)
	_ = d.Insert(value.String("again"), l)
	_ = d.Insert(value.String("name"), value.String("sample"))
	return d
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func TestFileStoreRoundTrip(t *testing.T) {
	codecs := map[string]arena.IArenaCodec{
		"Default": nil,
		"Proto":   arena.NewProtoCodec(),
		"Binary":  arena.NewBinaryCodec(),
		"JSON":    arena.NewJSONCodec(),
	}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			store := NewFileStore(fs, codec)
			v := sampleValue()

			if err := store.SerializeTo(v, "/data/value.vg"); err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}
			if exists, _ := afero.Exists(fs, "/data/value.vg.tmp"); exists {
				t.Errorf("Expected temporary file to be renamed")
			}

			got, err := store.DeserializeFrom("/data/value.vg", nil)
			if err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}
			if !got.Equal(v) {
				t.Errorf("Expected %s, got %s", v, got)
			}

			d := got.(value.Dict)
			a, _ := d.Get(value.String("numbers"))
			b, _ := d.Get(value.String("again"))
			if a.(value.List).StorageID() != b.(value.List).StorageID() {
				t.Errorf("Expected shared list to stay shared after persistence")
			}

			// a store without codec detects the format
			detected, err := NewFileStore(fs, nil).DeserializeFrom("/data/value.vg", nil)
			if err != nil || !detected.Equal(v) {
				t.Errorf("Expected codec detection to read the file, got %v (%v)", detected, err)
			}
		})
	}
}

func TestFileStoreShortWrites(t *testing.T) {
	base := afero.NewMemMapFs()
	store := NewFileStore(limitedFs{Fs: base, limit: 3}, arena.NewBinaryCodec())
	v := sampleValue()

	if err := store.SerializeTo(v, "/value.vg"); err != nil {
		t.Fatalf("Expected short writes to be retried, got %v", err)
	}
	got, err := NewFileStore(base, nil).DeserializeFrom("/value.vg", nil)
	if err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if !got.Equal(v) {
		t.Errorf("Expected %s, got %s", v, got)
	}
}

func TestFileStoreZeroProgressWrite(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "/value.vg", []byte("previous"), 0o644); err != nil {
		t.Fatalf("Failed to prepare file: %v", err)
	}
	store := NewFileStore(limitedFs{Fs: base, limit: 0}, nil)

	err := store.SerializeTo(sampleValue(), "/value.vg")
	if !value.IsCode(err, value.ErrCIO) {
		t.Fatalf("Expected IO error, got %v", err)
	}

	data, _ := afero.ReadFile(base, "/value.vg")
	if string(data) != "previous" {
		t.Errorf("Expected destination to be untouched, got %q", data)
	}
	if exists, _ := afero.Exists(base, "/value.vg.tmp"); exists {
		t.Errorf("Expected temporary file to be removed")
	}
}

func TestFileStoreSerializeFailureLeavesFsUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, nil)

	bad := value.NewList(value.AnyType)
	_ = bad.Append(value.NewCommand(nil, "", "", nil))

	if err := store.SerializeTo(bad, "/value.vg"); err == nil {
		t.Fatalf("Expected serialization of unnamed command to fail")
	}
	if exists, _ := afero.Exists(fs, "/value.vg.tmp"); exists {
		t.Errorf("Expected no temporary file")
	}
	if exists, _ := afero.Exists(fs, "/value.vg"); exists {
		t.Errorf("Expected no destination file")
	}
}

func TestFileStoreReadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, nil)

	if _, err := store.DeserializeFrom("/missing.vg", nil); !value.IsCode(err, value.ErrCIO) {
		t.Errorf("Expected IO error for missing file, got %v", err)
	}

	_ = afero.WriteFile(fs, "/corrupt.vg", []byte("VGRAPH\x00\x01garbage"), 0o644)
	if _, err := store.DeserializeFrom("/corrupt.vg", nil); !value.IsCode(err, value.ErrCDecode) {
		t.Errorf("Expected decode error for corrupt file, got %v", err)
	}
}
