package preprocess

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtmetrics/nbaprep/internal/dataset"
)

const (
	versionPrefix     = "NBA2k"
	versionYearLayout = "06"

	// cardinalityLimit is the distinct-value count at which a string column
	// stops being useful as a categorical feature.
	cardinalityLimit = 50
)

// Engineer derives age, experience and bmi from the cleaned table, drops the
// columns those derivations consume and prunes every remaining string column
// with cardinalityLimit or more distinct values.
func Engineer(t *dataset.Table) (*dataset.Table, error) {
	years, err := parseVersionYears(t)
	if err != nil {
		return nil, err
	}
	bday, err := timeColumn(t, "b_day")
	if err != nil {
		return nil, err
	}
	draft, err := timeColumn(t, "draft_year")
	if err != nil {
		return nil, err
	}
	weight, err := floatColumn(t, "weight")
	if err != nil {
		return nil, err
	}
	height, err := floatColumn(t, "height")
	if err != nil {
		return nil, err
	}

	rows := t.Len()
	age := make([]int64, rows)
	experience := make([]int64, rows)
	bmi := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if !bday.Valid[i] {
			return nil, fmt.Errorf("preprocess: column %q row %d is missing", "b_day", i)
		}
		if !draft.Valid[i] {
			return nil, fmt.Errorf("preprocess: column %q row %d is missing", "draft_year", i)
		}
		age[i] = int64(years[i] - bday.Times[i].Year())
		experience[i] = int64(years[i] - draft.Times[i].Year())
		h := height.Floats[i]
		bmi[i] = weight.Floats[i] / (h * h)
	}

	out, err := t.WithColumns(
		dataset.NewIntColumn("age", age, nil),
		dataset.NewIntColumn("experience", experience, nil),
		dataset.NewFloatColumn("bmi", bmi, nil),
	)
	if err != nil {
		return nil, err
	}
	out, err = out.Drop("draft_year", "b_day", "weight", "height", "version")
	if err != nil {
		return nil, err
	}

	var prune []string
	for _, c := range out.StringColumns() {
		if c.Nunique() >= cardinalityLimit {
			prune = append(prune, c.Name)
		}
	}
	if len(prune) == 0 {
		return out, nil
	}
	return out.Drop(prune...)
}

// parseVersionYears resolves the "NBA2k<YY>" release tag of every row into a
// full year.
func parseVersionYears(t *dataset.Table) ([]int, error) {
	c, err := t.Column("version")
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindString {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want string", "version", c.Kind)
	}

	years := make([]int, c.Len())
	for i, s := range c.Strings {
		if !c.Valid[i] {
			return nil, fmt.Errorf("preprocess: column %q row %d is missing", "version", i)
		}
		rest := strings.TrimPrefix(s, versionPrefix)
		if rest == s {
			return nil, fmt.Errorf("preprocess: column %q row %d: %q lacks the %s prefix", "version", i, s, versionPrefix)
		}
		ts, err := time.Parse(versionYearLayout, rest)
		if err != nil {
			return nil, fmt.Errorf("preprocess: column %q row %d: %w", "version", i, err)
		}
		years[i] = ts.Year()
	}
	return years, nil
}

func timeColumn(t *dataset.Table, name string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindTime {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want time", name, c.Kind)
	}
	return c, nil
}

func floatColumn(t *dataset.Table, name string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindFloat {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want float", name, c.Kind)
	}
	return c, nil
}
