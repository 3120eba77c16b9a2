package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrColumnNotFound reports a lookup against a column the table does not have.
	ErrColumnNotFound = errors.New("dataset: column not found")
	// ErrZeroVariance reports a numeric column whose values are all identical.
	ErrZeroVariance = errors.New("dataset: zero variance")
)

// Kind identifies the value type backing a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Column is a single named, typed column. Exactly one of the value slices is
// populated, selected by Kind. Valid marks present entries; a false entry is
// a missing value and the corresponding slot holds the zero value.
type Column struct {
	Name    string
	Kind    Kind
	Strings []string
	Ints    []int64
	Floats  []float64
	Times   []time.Time
	Valid   []bool
}

// NewStringColumn builds a string column. A nil valid mask marks every entry
// present.
func NewStringColumn(name string, values []string, valid []bool) *Column {
	if valid == nil {
		valid = allValid(len(values))
	}
	return &Column{Name: name, Kind: KindString, Strings: values, Valid: valid}
}

// NewIntColumn builds an integer column. A nil valid mask marks every entry
// present.
func NewIntColumn(name string, values []int64, valid []bool) *Column {
	if valid == nil {
		valid = allValid(len(values))
	}
	return &Column{Name: name, Kind: KindInt, Ints: values, Valid: valid}
}

// NewFloatColumn builds a float column. A nil valid mask marks every entry
// present.
func NewFloatColumn(name string, values []float64, valid []bool) *Column {
	if valid == nil {
		valid = allValid(len(values))
	}
	return &Column{Name: name, Kind: KindFloat, Floats: values, Valid: valid}
}

// NewTimeColumn builds a time column. A nil valid mask marks every entry
// present.
func NewTimeColumn(name string, values []time.Time, valid []bool) *Column {
	if valid == nil {
		valid = allValid(len(values))
	}
	return &Column{Name: name, Kind: KindTime, Times: values, Valid: valid}
}

func allValid(n int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}
	return valid
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindString:
		return len(c.Strings)
	case KindInt:
		return len(c.Ints)
	case KindFloat:
		return len(c.Floats)
	case KindTime:
		return len(c.Times)
	default:
		return 0
	}
}

// IsNumeric reports whether the column is Int or Float.
func (c *Column) IsNumeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// Float64s returns a fresh float64 slice of the column values. It returns nil
// for non-numeric kinds.
func (c *Column) Float64s() []float64 {
	switch c.Kind {
	case KindFloat:
		out := make([]float64, len(c.Floats))
		copy(out, c.Floats)
		return out
	case KindInt:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out
	default:
		return nil
	}
}

// Nunique counts distinct values among the valid entries.
func (c *Column) Nunique() int {
	switch c.Kind {
	case KindString:
		seen := make(map[string]struct{})
		for i, v := range c.Strings {
			if c.Valid[i] {
				seen[v] = struct{}{}
			}
		}
		return len(seen)
	case KindInt:
		seen := make(map[int64]struct{})
		for i, v := range c.Ints {
			if c.Valid[i] {
				seen[v] = struct{}{}
			}
		}
		return len(seen)
	case KindFloat:
		seen := make(map[float64]struct{})
		for i, v := range c.Floats {
			if c.Valid[i] {
				seen[v] = struct{}{}
			}
		}
		return len(seen)
	case KindTime:
		seen := make(map[time.Time]struct{})
		for i, v := range c.Times {
			if c.Valid[i] {
				seen[v] = struct{}{}
			}
		}
		return len(seen)
	default:
		return 0
	}
}

// Table is an ordered set of equal-length, uniquely named columns. Derived
// tables share column values with their parent, so columns must be treated
// as immutable once part of a table; transforms build replacement columns
// instead of editing in place.
type Table struct {
	cols  []*Column
	index map[string]int
}

// NewTable builds a table from cols, rejecting duplicate names and ragged
// lengths.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.push(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) push(c *Column) error {
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("dataset: duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.cols[0].Len() {
		return fmt.Errorf("dataset: column %q has %d rows, want %d", c.Name, c.Len(), t.cols[0].Len())
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.cols)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order. The slice is fresh; the
// columns are shared.
func (t *Table) Columns() []*Column {
	cols := make([]*Column, len(t.cols))
	copy(cols, t.cols)
	return cols
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column. A miss yields ErrColumnNotFound; when an
// existing header is close to the requested name, the error names it.
func (t *Table) Column(name string) (*Column, error) {
	if i, ok := t.index[name]; ok {
		return t.cols[i], nil
	}
	if s := t.nearest(name); s != "" {
		return nil, fmt.Errorf("%w: %q (closest header is %q)", ErrColumnNotFound, name, s)
	}
	return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// nearest returns the header closest to name by edit distance, or "" when
// nothing comes within half the query length.
func (t *Table) nearest(name string) string {
	best, bestDist := "", len(name)/2+1
	for _, c := range t.cols {
		if d := levenshtein.ComputeDistance(name, c.Name); d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best
}

// NumericColumns returns the Int and Float columns in table order.
func (t *Table) NumericColumns() []*Column {
	var cols []*Column
	for _, c := range t.cols {
		if c.IsNumeric() {
			cols = append(cols, c)
		}
	}
	return cols
}

// StringColumns returns the String columns in table order.
func (t *Table) StringColumns() []*Column {
	var cols []*Column
	for _, c := range t.cols {
		if c.Kind == KindString {
			cols = append(cols, c)
		}
	}
	return cols
}

// Nunique counts distinct values among the valid entries of the named column.
func (t *Table) Nunique(name string) (int, error) {
	c, err := t.Column(name)
	if err != nil {
		return 0, err
	}
	return c.Nunique(), nil
}

// Drop returns a new table without the named columns. Naming an absent
// column is an error.
func (t *Table) Drop(names ...string) (*Table, error) {
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, n)
		}
	}
	return t.drop(names), nil
}

// DropIgnoreMissing returns a new table without the named columns, silently
// skipping names the table does not have.
func (t *Table) DropIgnoreMissing(names ...string) *Table {
	return t.drop(names)
}

func (t *Table) drop(names []string) *Table {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		if skip[c.Name] {
			continue
		}
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c)
	}
	return out
}

// Replace returns a new table with the same column order where each column
// matching a replacement's name is swapped for the replacement.
func (t *Table) Replace(cols ...*Column) (*Table, error) {
	repl := make(map[string]*Column, len(cols))
	for _, c := range cols {
		if _, ok := t.index[c.Name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, c.Name)
		}
		repl[c.Name] = c
	}
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		if r, ok := repl[c.Name]; ok {
			c = r
		}
		if err := out.push(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WithColumns returns a new table extending the receiver with cols.
func (t *Table) WithColumns(cols ...*Column) (*Table, error) {
	out := &Table{index: make(map[string]int, len(t.cols)+len(cols))}
	for _, c := range t.cols {
		if err := out.push(c); err != nil {
			return nil, err
		}
	}
	for _, c := range cols {
		if err := out.push(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
