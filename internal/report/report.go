package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/courtmetrics/nbaprep/internal/preprocess"
)

// Summary describes one pipeline run over a dataset.
type Summary struct {
	RunID     string   `json:"run_id"`
	Dataset   string   `json:"dataset"`
	Rows      int      `json:"rows"`
	Features  int      `json:"features"`
	Columns   []string `json:"columns"`
	Target    string   `json:"target"`
	TargetMin float64  `json:"target_min"`
	TargetMax float64  `json:"target_max"`
}

// Summarize builds the run summary for a processed dataset.
func Summarize(dataset string, f *preprocess.Features, tgt *preprocess.Target) *Summary {
	rows, _ := f.Matrix.Dims()
	s := &Summary{
		RunID:    uuid.NewString(),
		Dataset:  dataset,
		Rows:     rows,
		Features: len(f.Columns),
		Columns:  append([]string(nil), f.Columns...),
		Target:   tgt.Name,
	}
	if len(tgt.Values) > 0 {
		s.TargetMin = floats.Min(tgt.Values)
		s.TargetMax = floats.Max(tgt.Values)
	}
	return s
}

// Preview renders the first n feature rows as a dataframe table for console
// output. Column labels that repeat are disambiguated by the renderer.
func Preview(f *preprocess.Features, n int) string {
	rows, _ := f.Matrix.Dims()
	if n <= 0 || rows == 0 {
		return ""
	}
	if n > rows {
		n = rows
	}
	df := dataframe.LoadRecords(records(f, n))
	if df.Err != nil {
		return fmt.Sprintf("preview unavailable: %v", df.Err)
	}
	return df.String()
}

// WriteFeaturesCSV writes the full feature matrix with its header row.
// Column labels that repeat are disambiguated in the header.
func WriteFeaturesCSV(w io.Writer, f *preprocess.Features) error {
	rows, _ := f.Matrix.Dims()
	df := dataframe.LoadRecords(records(f, rows), dataframe.DetectTypes(false))
	if df.Err != nil {
		return fmt.Errorf("report: build features frame: %w", df.Err)
	}
	return df.WriteCSV(w)
}

// WriteTargetCSV writes the target vector as a single named column.
func WriteTargetCSV(w io.Writer, tgt *preprocess.Target) error {
	recs := make([][]string, 0, len(tgt.Values)+1)
	recs = append(recs, []string{tgt.Name})
	for _, v := range tgt.Values {
		recs = append(recs, []string{strconv.FormatFloat(v, 'f', -1, 64)})
	}
	df := dataframe.LoadRecords(recs, dataframe.DetectTypes(false))
	if df.Err != nil {
		return fmt.Errorf("report: build target frame: %w", df.Err)
	}
	return df.WriteCSV(w)
}

// records flattens the first n matrix rows into string records headed by the
// column names.
func records(f *preprocess.Features, n int) [][]string {
	recs := make([][]string, 0, n+1)
	recs = append(recs, append([]string(nil), f.Columns...))
	for i := 0; i < n; i++ {
		row := make([]string, len(f.Columns))
		for j := range f.Columns {
			row[j] = strconv.FormatFloat(f.Matrix.At(i, j), 'f', -1, 64)
		}
		recs = append(recs, row)
	}
	return recs
}
