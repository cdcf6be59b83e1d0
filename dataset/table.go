// Package dataset holds the in-memory consumer-behaviour table and its loader.
//
// A Table wraps a gota DataFrame. Tables are treated as values: every method
// that changes content returns a new Table and leaves the receiver untouched.
// Missing cells are gota NaN elements; the text "None" is an ordinary value.
package dataset

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

// Well-known columns of the consumer-behaviour dataset.
const (
	DeviceColumn     = "Device_Used_for_Shopping"
	EngagementColumn = "Engagement_with_Ads"
	ScoreColumn      = "Engagement_with_Ads_Score"
)

// Table is an ordered set of rows sharing one column schema.
type Table struct {
	df dataframe.DataFrame
}

// ColumnInfo summarises one column, in the spirit of DataFrame.info().
type ColumnInfo struct {
	Name    string
	Type    series.Type
	NonNull int
}

// FromDataFrame wraps df. The DataFrame is copied so later changes to df do not leak in.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, scigoErrors.Wrap(df.Err, "dataset: invalid dataframe")
	}
	return &Table{df: df.Copy()}, nil
}

// DataFrame returns a copy of the underlying gota DataFrame.
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df.Copy()
}

// Nrow returns the number of rows.
func (t *Table) Nrow() int { return t.df.Nrow() }

// Ncol returns the number of columns.
func (t *Table) Ncol() int { return t.df.Ncol() }

// Names returns the column names in order.
func (t *Table) Names() []string { return t.df.Names() }

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// RequireColumns returns an error wrapping ErrMissingColumn for the first absent column.
func (t *Table) RequireColumns(names ...string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return scigoErrors.Wrapf(scigoErrors.ErrMissingColumn, "column %q", name)
		}
	}
	return nil
}

func (t *Table) column(name string) (series.Series, error) {
	if !t.HasColumn(name) {
		return series.Series{}, scigoErrors.Wrapf(scigoErrors.ErrMissingColumn, "column %q", name)
	}
	return t.df.Col(name), nil
}

// Strings returns the column as text together with its missing mask.
// Missing cells are returned as "" with missing[i] set.
func (t *Table) Strings(name string) (values []string, missing []bool, err error) {
	col, err := t.column(name)
	if err != nil {
		return nil, nil, err
	}
	records := col.Records()
	missing = col.IsNaN()
	values = make([]string, len(records))
	for i, r := range records {
		if !missing[i] {
			values[i] = r
		}
	}
	return values, missing, nil
}

// Ints returns an integer column together with its missing mask.
func (t *Table) Ints(name string) (values []int, missing []bool, err error) {
	col, err := t.column(name)
	if err != nil {
		return nil, nil, err
	}
	missing = col.IsNaN()
	values = make([]int, col.Len())
	for i := range values {
		if missing[i] {
			continue
		}
		v, err := col.Elem(i).Int()
		if err != nil {
			return nil, nil, scigoErrors.Wrapf(err, "column %q row %d", name, i)
		}
		values[i] = v
	}
	return values, missing, nil
}

// MissingCount returns the number of missing cells in a column.
func (t *Table) MissingCount(name string) (int, error) {
	col, err := t.column(name)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range col.IsNaN() {
		if m {
			n++
		}
	}
	return n, nil
}

// Unique returns the distinct non-missing values of a column in order of first appearance.
func (t *Table) Unique(name string) ([]string, error) {
	values, missing, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for i, v := range values {
		if missing[i] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// WithColumn returns a new Table with col added, or replacing the column of the same name.
func (t *Table) WithColumn(col series.Series) (*Table, error) {
	if col.Len() != t.Nrow() {
		return nil, scigoErrors.NewDimensionError("Table.WithColumn", t.Nrow(), col.Len(), 0)
	}
	df := t.df.Copy().Mutate(col)
	if df.Err != nil {
		return nil, scigoErrors.Wrapf(df.Err, "dataset: set column %q", col.Name)
	}
	return &Table{df: df}, nil
}

// Subset returns a new Table holding the given rows in the given order.
func (t *Table) Subset(rows []int) (*Table, error) {
	if len(rows) == 0 {
		return t.empty(), nil
	}
	for _, r := range rows {
		if r < 0 || r >= t.Nrow() {
			return nil, scigoErrors.NewValueError("Table.Subset", "row index "+strconv.Itoa(r)+" out of range")
		}
	}
	df := t.df.Subset(rows)
	if df.Err != nil {
		return nil, scigoErrors.Wrap(df.Err, "dataset: subset")
	}
	return &Table{df: df}, nil
}

// empty returns a zero-row table with the same schema.
func (t *Table) empty() *Table {
	names := t.df.Names()
	types := t.df.Types()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = series.New([]string{}, types[i], name)
	}
	return &Table{df: dataframe.New(cols...)}
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.Nrow() {
		n = t.Nrow()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	h, err := t.Subset(rows)
	if err != nil {
		return t.empty()
	}
	return h
}

// Info returns per-column type and non-null counts.
func (t *Table) Info() []ColumnInfo {
	names := t.df.Names()
	types := t.df.Types()
	info := make([]ColumnInfo, len(names))
	for i, name := range names {
		nonNull := 0
		for _, m := range t.df.Col(name).IsNaN() {
			if !m {
				nonNull++
			}
		}
		info[i] = ColumnInfo{Name: name, Type: types[i], NonNull: nonNull}
	}
	return info
}

// Describe returns summary statistics of every column.
func (t *Table) Describe() dataframe.DataFrame {
	return t.df.Describe()
}

// Equal reports whether two tables have the same schema, values and missing cells.
func (t *Table) Equal(o *Table) bool {
	if t.Nrow() != o.Nrow() || t.Ncol() != o.Ncol() {
		return false
	}
	otherTypes := o.df.Types()
	for i, name := range t.df.Names() {
		if o.df.Names()[i] != name || t.df.Types()[i] != otherTypes[i] {
			return false
		}
		a, b := t.df.Col(name), o.df.Col(name)
		ar, br := a.Records(), b.Records()
		an, bn := a.IsNaN(), b.IsNaN()
		for r := range ar {
			if an[r] != bn[r] || (!an[r] && ar[r] != br[r]) {
				return false
			}
		}
	}
	return true
}

func (t *Table) String() string {
	return fmt.Sprint(t.df)
}
