package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// ReadCSV loads a comma-separated file with a header row into a Table.
//
// Column types are inferred from the data: a column whose cells all parse as
// integers becomes Int, falling back to Float and then String. Empty cells
// are recorded as missing, and a would-be integer column containing missing
// cells is promoted to Float.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: %s has no header row", path)
	}

	header := records[0]
	rows := records[1:]

	cols := make([]*Column, 0, len(header))
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cells[i] = row[j]
		}
		cols = append(cols, inferColumn(name, cells))
	}
	return NewTable(cols...)
}

func inferColumn(name string, cells []string) *Column {
	valid := make([]bool, len(cells))
	hasMissing := false
	for i, s := range cells {
		if s == "" {
			hasMissing = true
			continue
		}
		valid[i] = true
	}

	if !hasMissing {
		ints := make([]int64, len(cells))
		isInt := true
		for i, s := range cells {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				isInt = false
				break
			}
			ints[i] = v
		}
		if isInt {
			return NewIntColumn(name, ints, valid)
		}
	}

	floats := make([]float64, len(cells))
	isFloat := true
	for i, s := range cells {
		if !valid[i] {
			floats[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			isFloat = false
			break
		}
		floats[i] = v
	}
	if isFloat {
		return NewFloatColumn(name, floats, valid)
	}

	strs := make([]string, len(cells))
	for i, s := range cells {
		if valid[i] {
			strs[i] = s
		}
	}
	return NewStringColumn(name, strs, valid)
}
