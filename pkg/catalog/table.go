package catalog

// ColumnType is the inferred storage type of a column.
type ColumnType int

const (
	Int ColumnType = iota
	Float
	String
)

// Column is a single named, typed column. Exactly one of the value slices is
// populated, matching Type.
type Column struct {
	Name   string
	Type   ColumnType
	Ints   []int64
	Floats []float64
	Strs   []string
}

// Table is an immutable column-oriented view of a parsed catalog.
type Table struct {
	cols  []Column
	index map[string]int
	nrows int
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return t.nrows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in file order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// HasColumn reports whether the table contains a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column, or a SchemaError if absent.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &SchemaError{Column: name}
	}
	return &t.cols[i], nil
}

// Floats returns the named column as float64 values. Integer columns are
// widened; string columns cannot be converted and yield a SchemaError.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	switch c.Type {
	case Float:
		out := make([]float64, len(c.Floats))
		copy(out, c.Floats)
		return out, nil
	case Int:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, &SchemaError{Column: name}
	}
}

// Strings returns the named column rendered as strings regardless of type.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Type == String {
		out := make([]string, len(c.Strs))
		copy(out, c.Strs)
		return out, nil
	}
	return nil, &SchemaError{Column: name}
}

// Select returns a new table containing only the given row indices, in order.
// The receiver is not modified.
func (t *Table) Select(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		nc := Column{Name: c.Name, Type: c.Type}
		switch c.Type {
		case Int:
			nc.Ints = make([]int64, len(rows))
			for j, r := range rows {
				nc.Ints[j] = c.Ints[r]
			}
		case Float:
			nc.Floats = make([]float64, len(rows))
			for j, r := range rows {
				nc.Floats[j] = c.Floats[r]
			}
		default:
			nc.Strs = make([]string, len(rows))
			for j, r := range rows {
				nc.Strs[j] = c.Strs[r]
			}
		}
		cols[i] = nc
	}
	return newTable(cols, len(rows))
}

// DropColumns returns a new table without the named columns. Names absent
// from the table are ignored: downstream catalog releases add and remove
// flag columns, so the drop list is advisory rather than a schema contract.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var cols []Column
	for _, c := range t.cols {
		if !drop[c.Name] {
			cols = append(cols, c)
		}
	}
	return newTable(cols, t.nrows)
}

func newTable(cols []Column, nrows int) *Table {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c.Name] = i
	}
	return &Table{cols: cols, index: idx, nrows: nrows}
}
