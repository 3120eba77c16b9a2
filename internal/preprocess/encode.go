package preprocess

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/courtmetrics/nbaprep/internal/dataset"
)

// Features is the terminal feature matrix with its ordered column names.
// Names are not guaranteed unique: indicator columns carry the bare category
// label, and two source columns may share a label.
type Features struct {
	Columns []string
	Matrix  *mat.Dense
}

// Target is the prediction target extracted from the table.
type Target struct {
	Name   string
	Values []float64
}

// Encode splits the target out of the table, standard-scales the remaining
// numeric columns and one-hot expands the string columns, concatenating both
// blocks into the feature matrix. Row order is preserved throughout.
func Encode(t *dataset.Table) (*Features, *Target, error) {
	rows := t.Len()
	if rows == 0 {
		return nil, nil, fmt.Errorf("preprocess: encode: table has no rows")
	}

	tc, err := t.Column(targetColumn)
	if err != nil {
		return nil, nil, err
	}
	if !tc.IsNumeric() {
		return nil, nil, fmt.Errorf("preprocess: target %q has kind %s, want numeric", targetColumn, tc.Kind)
	}
	target := &Target{Name: targetColumn, Values: tc.Float64s()}

	work, err := t.Drop(targetColumn)
	if err != nil {
		return nil, nil, err
	}

	var names []string
	var columns [][]float64

	for _, c := range work.NumericColumns() {
		names = append(names, c.Name)
		columns = append(columns, standardScale(c.Float64s()))
	}
	for _, c := range work.StringColumns() {
		for _, category := range categories(c) {
			indicator := make([]float64, rows)
			for i, s := range c.Strings {
				if c.Valid[i] && s == category {
					indicator[i] = 1
				}
			}
			names = append(names, category)
			columns = append(columns, indicator)
		}
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("preprocess: encode: no feature columns left beside %q", targetColumn)
	}

	m := mat.NewDense(rows, len(names), nil)
	for j, col := range columns {
		m.SetCol(j, col)
	}
	return &Features{Columns: names, Matrix: m}, target, nil
}

// standardScale centers x on its mean and divides by the population standard
// deviation. A zero spread divides by one instead, mapping constant input to
// zeros.
func standardScale(x []float64) []float64 {
	mean := stat.Mean(x, nil)
	var squaredDiff float64
	for _, v := range x {
		diff := v - mean
		squaredDiff += diff * diff
	}
	std := math.Sqrt(squaredDiff / float64(len(x)))
	if std == 0 {
		std = 1
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}

// categories returns the distinct valid values of a string column in
// ascending order.
func categories(c *dataset.Column) []string {
	seen := make(map[string]struct{})
	for i, s := range c.Strings {
		if c.Valid[i] {
			seen[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
