package convert

import (
	"encoding/base64"
	"sort"
	"time"

	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/goccy/go-json"
)

// fromArray picks the narrowest container for a decoded array
func fromArray(items []value.Value) (value.Value, error) {
	if len(items) == 0 {
		return value.Empty{}, nil
	}

	first := items[0].Type()
	same := true
	for _, it := range items[1:] {
		if !it.Type().Equal(first) {
			same = false
			break
		}
	}

	if !same {
		if allStructs(items) {
			return value.ListOf(value.StructType(), items...)
		}
		return value.ListOf(value.AnyType, items...)
	}

	if first.TypeKind() == value.TypeStruct {
		columns := first.Columns()
		rows := make([]value.Row, len(items))
		for i, it := range items {
			fields := it.(value.Struct).Fields()
			cells := make([]value.Value, len(fields))
			for j, f := range fields {
				cells[j] = f.Value
			}
			rows[i] = value.NewRow(cells...)
		}
		return value.NewTable(columns, rows)
	}
	return value.ListOf(first, items...)
}

func allStructs(items []value.Value) bool {
	for _, it := range items {
		if it.Kind() != value.KindStruct {
			return false
		}
	}
	return true
}

// field is one member of an ordered object
type field struct {
	name  string
	value interface{}
}

// object is a JSON/YAML mapping that keeps its insertion order
type object struct {
	fields []field
}

func (o *object) add(name string, v interface{}) {
	o.fields = append(o.fields, field{name: name, value: v})
}

func (o *object) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, f := range o.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}

// bigNumber is an integer outside the int64 range, kept as its decimal digits
type bigNumber string

func (n bigNumber) MarshalJSON() ([]byte, error) { return []byte(n), nil }

// exporter turns a value graph into plain Go data (nil, bool, int64,
// bigNumber, float64, string, []interface{}, *object).
type exporter struct {
	path map[uint64]struct{}
}

func newExporter() *exporter {
	return &exporter{path: make(map[uint64]struct{})}
}

func (e *exporter) enter(s value.Shared) error {
	id := s.StorageID()
	if _, ok := e.path[id]; ok {
		return value.ArgumentError("cannot export cyclic %s value", s.Kind())
	}
	e.path[id] = struct{}{}
	return nil
}

func (e *exporter) leave(s value.Shared) {
	delete(e.path, s.StorageID())
}

func (e *exporter) export(v value.Value) (interface{}, error) {
	switch t := v.(type) {
	case nil, value.Empty:
		return nil, nil
	case value.Bool:
		return bool(t), nil
	case value.Integer:
		if i, ok := t.Int64(); ok {
			return i, nil
		}
		return bigNumber(t.String()), nil
	case value.Float:
		return float64(t), nil
	case value.String:
		return string(t), nil
	case value.File:
		return string(t), nil
	case value.Duration:
		return int64(time.Duration(t) / time.Second), nil
	case value.Time:
		return t.Time().Format(time.RFC3339), nil
	case value.Binary:
		return base64.StdEncoding.EncodeToString(t.Bytes()), nil
	case value.ValueType:
		return t.String(), nil
	case value.Command:
		return t.FullName(), nil
	case value.TableStream, value.BinaryStream:
		return e.export(t.Materialize())
	case value.Table:
		return e.exportTable(t)
	case value.List:
		if err := e.enter(t); err != nil {
			return nil, err
		}
		defer e.leave(t)
		return e.exportSlice(t.Elements())
	case value.Dict:
		if err := e.enter(t); err != nil {
			return nil, err
		}
		defer e.leave(t)
		return e.exportDict(t)
	case value.Struct:
		if err := e.enter(t); err != nil {
			return nil, err
		}
		defer e.leave(t)
		return e.exportFields(t.Fields())
	case value.Scope:
		if err := e.enter(t); err != nil {
			return nil, err
		}
		defer e.leave(t)
		return e.exportFields(t.Members())
	}
	return nil, value.ArgumentError("cannot export values of type %s", v.Type())
}

func (e *exporter) exportSlice(items []value.Value) ([]interface{}, error) {
	out := make([]interface{}, len(items))
	for i, it := range items {
		p, err := e.export(it)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func (e *exporter) exportFields(fields []value.Field) (*object, error) {
	o := &object{fields: make([]field, 0, len(fields))}
	for _, f := range fields {
		p, err := e.export(f.Value)
		if err != nil {
			return nil, err
		}
		o.add(f.Name, p)
	}
	return o, nil
}

func (e *exporter) exportDict(d value.Dict) (*object, error) {
	entries := d.Elements()
	names := make([]string, len(entries))
	for i, en := range entries {
		names[i] = en.Key.String()
	}
	sort.Sort(byName{names, entries})

	o := &object{fields: make([]field, 0, len(entries))}
	for i, en := range entries {
		p, err := e.export(en.Value)
		if err != nil {
			return nil, err
		}
		o.add(names[i], p)
	}
	return o, nil
}

func (e *exporter) exportTable(t value.Table) ([]interface{}, error) {
	columns := t.Columns()
	rows := t.Rows()
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		o := &object{fields: make([]field, 0, len(columns))}
		for j, c := range columns {
			cell, _ := r.Cell(j)
			p, err := e.export(cell)
			if err != nil {
				return nil, err
			}
			o.add(c.Name, p)
		}
		out[i] = o
	}
	return out, nil
}

// byName sorts dict entries by their rendered key
type byName struct {
	names   []string
	entries []value.Entry
}

func (b byName) Len() int { return len(b.names) }
func (b byName) Less(i, j int) bool { return b.names[i] < b.names[j] }
func (b byName) Swap(i, j int) {
	b.names[i], b.names[j] = b.names[j], b.names[i]
	b.entries[i], b.entries[j] = b.entries[j], b.entries[i]
}
