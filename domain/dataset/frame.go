package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies the scalar type of a column
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindBoolean Kind = "boolean"
	KindText    Kind = "text"
)

// Cell is one scalar value. Missing cells carry no raw text; every reader
// maps its format's missing tokens to Missing before the Frame is built.
type Cell struct {
	Raw     string
	Missing bool
}

// Value creates a present cell
func Value(raw string) Cell {
	return Cell{Raw: raw}
}

// MissingCell is the canonical missing-marker cell
func MissingCell() Cell {
	return Cell{Missing: true}
}

// Float returns the cell parsed as a number
func (c Cell) Float() (float64, bool) {
	if c.Missing {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Column is a named sequence of cells of one inferred kind
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Numbers returns the parsed values of all present numeric cells, in order
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if v, ok := cell.Float(); ok {
			out = append(out, v)
		}
	}
	return out
}

// MissingCount returns how many cells are missing
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Missing {
			n++
		}
	}
	return n
}

// Frame is the in-memory tabular dataset: an ordered sequence of named
// columns of equal length. Column names are unique within one frame.
type Frame struct {
	cols  []*Column
	index map[string]int
}

// New creates an empty frame with the given column names
func New(names []string) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(names))}
	for _, name := range names {
		if err := f.addColumn(name, nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Frame) addColumn(name string, cells []Cell) error {
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if _, exists := f.index[name]; exists {
		return fmt.Errorf("duplicate column name %q", name)
	}
	f.index[name] = len(f.cols)
	f.cols = append(f.cols, &Column{Name: name, Kind: KindText, Cells: cells})
	return nil
}

// NumRows returns the row count
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Cells)
}

// NumCols returns the column count
func (f *Frame) NumCols() int {
	return len(f.cols)
}

// ColumnNames returns the names in column order
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice shares the frame's
// backing data; callers must not reorder or rename.
func (f *Frame) Columns() []*Column {
	return f.cols
}

// Column looks a column up by name
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// HasColumn reports whether a column with the given name exists
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// AppendRow appends one row; the cell count must match the column count
func (f *Frame) AppendRow(cells []Cell) error {
	if len(cells) != len(f.cols) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(cells), len(f.cols))
	}
	for i, c := range f.cols {
		c.Cells = append(c.Cells, cells[i])
	}
	return nil
}

// AppendColumn adds a new column of existing row count
func (f *Frame) AppendColumn(name string, cells []Cell) error {
	if len(f.cols) > 0 && len(cells) != f.NumRows() {
		return fmt.Errorf("column %q has %d cells, frame has %d rows", name, len(cells), f.NumRows())
	}
	return f.addColumn(name, cells)
}

// Row returns the cells of row i in column order
func (f *Frame) Row(i int) []Cell {
	row := make([]Cell, len(f.cols))
	for j, c := range f.cols {
		row[j] = c.Cells[i]
	}
	return row
}

// InferKinds classifies every column from its present cells. A column whose
// present cells all parse as numbers is numeric; all true/false is boolean;
// anything else, including all-missing, is text.
func (f *Frame) InferKinds() {
	for _, c := range f.cols {
		c.Kind = inferKind(c.Cells)
	}
}

func inferKind(cells []Cell) Kind {
	present := 0
	numeric := true
	boolean := true
	for _, cell := range cells {
		if cell.Missing {
			continue
		}
		present++
		raw := strings.TrimSpace(cell.Raw)
		if numeric {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				numeric = false
			}
		}
		if boolean {
			switch strings.ToLower(raw) {
			case "true", "false":
			default:
				boolean = false
			}
		}
		if !numeric && !boolean {
			return KindText
		}
	}
	if present == 0 {
		return KindText
	}
	if numeric {
		return KindNumeric
	}
	if boolean {
		return KindBoolean
	}
	return KindText
}
