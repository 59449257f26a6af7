package value

import (
	"io"
	"sync"
)

// --------------------------------------------------------------------------
// Row streams
// --------------------------------------------------------------------------

// Readable is a one-shot row stream. Read returns rows until the stream is
// exhausted, then an error for which IsEndOfStream reports true.
type Readable interface {
	// Types returns the column schema of the rows.
	Types() []ColumnType
	// Read returns the next row.
	Read() (Row, error)
}

// DictReader streams a snapshot of a dict as rows (key, value). Later changes
// to the dict are not observed.
type DictReader struct {
	entries []Entry
	idx     int
	types   []ColumnType
}

// NewDictReader takes a snapshot of d.
func NewDictReader(d Dict) *DictReader {
	return &DictReader{
		entries: d.Elements(),
		types: []ColumnType{
			{Name: "key", Type: d.KeyType()},
			{Name: "value", Type: d.ValueType()},
		},
	}
}

func (r *DictReader) Types() []ColumnType { return cloneColumns(r.types) }

func (r *DictReader) Read() (Row, error) {
	if r.idx >= len(r.entries) {
		return Row{}, EndOfStream()
	}
	e := r.entries[r.idx]
	r.entries[r.idx] = Entry{}
	r.idx++
	return Row{cells: []Value{e.Key, e.Value}}, nil
}

// ListReader streams a snapshot of a list as single column rows.
type ListReader struct {
	items []Value
	idx   int
	types []ColumnType
}

func NewListReader(l List) *ListReader {
	return &ListReader{
		items: l.Elements(),
		types: []ColumnType{{Name: "value", Type: l.ElemType()}},
	}
}

func (r *ListReader) Types() []ColumnType { return cloneColumns(r.types) }

func (r *ListReader) Read() (Row, error) {
	if r.idx >= len(r.items) {
		return Row{}, EndOfStream()
	}
	v := r.items[r.idx]
	r.items[r.idx] = nil
	r.idx++
	return Row{cells: []Value{v}}, nil
}

// TableReader streams the rows of a table.
type TableReader struct {
	table Table
	idx   int
}

func NewTableReader(t Table) *TableReader {
	return &TableReader{table: t}
}

func (r *TableReader) Types() []ColumnType { return r.table.Columns() }

func (r *TableReader) Read() (Row, error) {
	if r.idx >= len(r.table.rows) {
		return Row{}, EndOfStream()
	}
	row := r.table.rows[r.idx]
	r.idx++
	return row, nil
}

// --------------------------------------------------------------------------
// Lazy values
// --------------------------------------------------------------------------

// TableStream is a lazily produced table. It can be consumed once, either by
// reading it or by materializing it into a Table.
type TableStream struct {
	src *tableStreamSource
}

type tableStreamSource struct {
	id     uint64
	mu     sync.Mutex
	reader Readable
}

func NewTableStream(r Readable) TableStream {
	return TableStream{src: &tableStreamSource{id: nextStorageID(), reader: r}}
}

// Readable returns the underlying reader.
func (s TableStream) Readable() Readable { return s.src.reader }

func (TableStream) Kind() Kind { return KindTableStream }
func (s TableStream) Type() ValueType { return TableStreamType(s.src.reader.Types()...) }
func (s TableStream) String() string { return "<table_stream>" }
func (s TableStream) Hash() uint64 { return mix(s.src.id ^ hashSeed) }

func (s TableStream) Equal(other Value) bool {
	o, ok := other.(TableStream)
	return ok && o.src == s.src
}

// Materialize drains the stream into a Table. Reading stops at the first error.
func (s TableStream) Materialize() Value {
	s.src.mu.Lock()
	defer s.src.mu.Unlock()
	columns := materializeColumns(s.src.reader.Types())
	var rows []Row
	for {
		row, err := s.src.reader.Read()
		if err != nil {
			break
		}
		cells := make([]Value, len(row.cells))
		for i, c := range row.cells {
			cells[i] = c.Materialize()
		}
		rows = append(rows, Row{cells: cells})
	}
	return Table{columns: columns, rows: rows}
}

// BinaryStream is a lazily produced byte stream. It can be consumed once.
type BinaryStream struct {
	src *binaryStreamSource
}

type binaryStreamSource struct {
	id uint64
	mu sync.Mutex
	r  io.Reader
}

func NewBinaryStream(r io.Reader) BinaryStream {
	return BinaryStream{src: &binaryStreamSource{id: nextStorageID(), r: r}}
}

// Read implements io.Reader.
func (s BinaryStream) Read(p []byte) (int, error) {
	s.src.mu.Lock()
	defer s.src.mu.Unlock()
	return s.src.r.Read(p)
}

func (BinaryStream) Kind() Kind { return KindBinaryStream }
func (BinaryStream) Type() ValueType { return BinaryStreamType }
func (s BinaryStream) Hash() uint64 { return mix(s.src.id ^ hashSeed) }
func (s BinaryStream) String() string { return "<binary_stream>" }

func (s BinaryStream) Equal(other Value) bool {
	o, ok := other.(BinaryStream)
	return ok && o.src == s.src
}

// Materialize drains the stream into a Binary. Bytes read before an error are kept.
func (s BinaryStream) Materialize() Value {
	s.src.mu.Lock()
	defer s.src.mu.Unlock()
	data, _ := io.ReadAll(s.src.r)
	return Binary{data: data}
}
