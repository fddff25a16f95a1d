package frame

import (
	"errors"
	"fmt"
)

var ErrColumnNotFound = errors.New("column not found")

// Series is a single named column of values.
type Series struct {
	Name   string
	Values []any
}

func NewSeries(name string, values []any) *Series {
	return &Series{Name: name, Values: values}
}

func (s *Series) Len() int {
	return len(s.Values)
}

// Copy returns a new series. A deep copy gets its own value slice, a
// shallow copy aliases the receiver's slice so cell mutations are visible
// through both.
func (s *Series) Copy(deep bool) *Series {
	values := s.Values
	if deep {
		values = make([]any, len(s.Values))
		copy(values, s.Values)
	}
	return &Series{Name: s.Name, Values: values}
}

// Frame is an ordered collection of equal-length columns with a row index.
// Column order is stable: overwriting a column keeps its position, new
// columns append at the end.
type Frame struct {
	index   []any
	columns []*Series
}

// New builds a frame from the given columns with a default 0..n-1 row index.
func New(columns ...*Series) (*Frame, error) {
	f := &Frame{}
	for _, col := range columns {
		if len(f.columns) > 0 && col.Len() != f.Len() {
			return nil, fmt.Errorf("column %q has %d values, want %d", col.Name, col.Len(), f.Len())
		}
		if f.Has(col.Name) {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		f.columns = append(f.columns, col)
	}
	f.index = rangeIndex(f.Len())
	return f, nil
}

func rangeIndex(n int) []any {
	idx := make([]any, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.columns) == 0 {
		return 0
	}
	return f.columns[0].Len()
}

// Index returns the row index values.
func (f *Frame) Index() []any {
	return f.index
}

// SetIndex replaces the row index. The length must match the row count.
func (f *Frame) SetIndex(index []any) error {
	if len(index) != f.Len() {
		return fmt.Errorf("index has %d values, want %d", len(index), f.Len())
	}
	f.index = index
	return nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.columns))
	for i, col := range f.columns {
		names[i] = col.Name
	}
	return names
}

func (f *Frame) Has(name string) bool {
	for _, col := range f.columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// Col returns the named column, sharing its storage.
func (f *Frame) Col(name string) (*Series, error) {
	for _, col := range f.columns {
		if col.Name == name {
			return col, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// Select returns a frame holding the named columns in the given order.
// The returned frame shares column storage and the index with the receiver.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := &Frame{index: f.index}
	for _, name := range names {
		col, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		out.columns = append(out.columns, col)
	}
	return out, nil
}

// SetCol installs a column. An existing column of the same name is
// overwritten in place, otherwise the column is appended.
func (f *Frame) SetCol(s *Series) error {
	if len(f.columns) > 0 && s.Len() != f.Len() {
		return fmt.Errorf("column %q has %d values, want %d", s.Name, s.Len(), f.Len())
	}
	for i, col := range f.columns {
		if col.Name == s.Name {
			f.columns[i] = s
			return nil
		}
	}
	f.columns = append(f.columns, s)
	// A custom index that still fits survives dropping and re-adding
	// columns; synthesize a range index only when none fits.
	if len(f.index) != s.Len() {
		f.index = rangeIndex(s.Len())
	}
	return nil
}

// DropCol removes the named column.
func (f *Frame) DropCol(name string) error {
	for i, col := range f.columns {
		if col.Name == name {
			f.columns = append(f.columns[:i], f.columns[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// Copy returns a new frame. Deep copies duplicate the value slices and the
// index; shallow copies alias them, so a cell-level mutation is visible
// through both frames. The column list itself is always fresh so that
// adding or dropping columns on the copy never affects the receiver.
func (f *Frame) Copy(deep bool) *Frame {
	out := &Frame{index: f.index}
	if deep {
		out.index = make([]any, len(f.index))
		copy(out.index, f.index)
	}
	out.columns = make([]*Series, len(f.columns))
	for i, col := range f.columns {
		out.columns[i] = col.Copy(deep)
	}
	return out
}

// Row returns the values of row i keyed by column name.
func (f *Frame) Row(i int) map[string]any {
	row := make(map[string]any, len(f.columns))
	for _, col := range f.columns {
		row[col.Name] = col.Values[i]
	}
	return row
}
