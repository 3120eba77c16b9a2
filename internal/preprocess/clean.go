package preprocess

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courtmetrics/nbaprep/internal/dataset"
)

const (
	birthDateLayout = "1/2/06"
	draftYearLayout = "2006"
)

// teamSentinel fills missing team entries for free agents.
const teamSentinel = "No Team"

var currencyStripper = strings.NewReplacer("$", "", ",", "")

// Clean normalizes the raw player table: birth and draft dates become time
// values, the metric component of height and weight becomes a float, salary
// loses its currency formatting, missing teams get the "No Team" sentinel,
// country collapses to USA/Not-USA and "Undrafted" rounds become the string
// "0".
//
// Clean expects the raw string schema produced by dataset.ReadCSV. It is not
// idempotent: running it on its own output fails on the already-parsed date
// columns.
func Clean(t *dataset.Table) (*dataset.Table, error) {
	bday, err := parseDates(t, "b_day", birthDateLayout)
	if err != nil {
		return nil, err
	}
	draftYear, err := parseDates(t, "draft_year", draftYearLayout)
	if err != nil {
		return nil, err
	}
	team, err := fillMissing(t, "team", teamSentinel)
	if err != nil {
		return nil, err
	}
	height, err := parseMetric(t, "height")
	if err != nil {
		return nil, err
	}
	weight, err := parseMetric(t, "weight")
	if err != nil {
		return nil, err
	}
	salary, err := parseSalary(t, "salary")
	if err != nil {
		return nil, err
	}
	country, err := binarizeCountry(t, "country")
	if err != nil {
		return nil, err
	}
	round, err := replaceLiteral(t, "draft_round", "Undrafted", "0")
	if err != nil {
		return nil, err
	}
	return t.Replace(bday, draftYear, team, height, weight, salary, country, round)
}

// parseDates parses a string or integer column into times using the given
// layout. Missing entries stay missing.
func parseDates(t *dataset.Table, name, layout string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindString && c.Kind != dataset.KindInt {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want string or int", name, c.Kind)
	}

	times := make([]time.Time, c.Len())
	valid := append([]bool(nil), c.Valid...)
	for i := 0; i < c.Len(); i++ {
		if !valid[i] {
			continue
		}
		raw := ""
		if c.Kind == dataset.KindString {
			raw = c.Strings[i]
		} else {
			raw = strconv.FormatInt(c.Ints[i], 10)
		}
		ts, err := time.Parse(layout, raw)
		if err != nil {
			return nil, fmt.Errorf("preprocess: column %q row %d: %w", name, i, err)
		}
		times[i] = ts
	}
	return dataset.NewTimeColumn(name, times, valid), nil
}

func fillMissing(t *dataset.Table, name, sentinel string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindString {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want string", name, c.Kind)
	}

	out := make([]string, c.Len())
	for i, s := range c.Strings {
		if c.Valid[i] {
			out[i] = s
		} else {
			out[i] = sentinel
		}
	}
	return dataset.NewStringColumn(name, out, nil), nil
}

// parseMetric extracts the metric component of a compound
// "<imperial> / <metric> <unit>" measurement as a float.
func parseMetric(t *dataset.Table, name string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindString {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want string", name, c.Kind)
	}

	vals := make([]float64, c.Len())
	for i, s := range c.Strings {
		if !c.Valid[i] {
			return nil, fmt.Errorf("preprocess: column %q row %d is missing", name, i)
		}
		parts := strings.Split(s, "/")
		if len(parts) < 2 {
			return nil, fmt.Errorf("preprocess: column %q row %d: %q lacks the imperial/metric separator", name, i, s)
		}
		fields := strings.Fields(strings.TrimSpace(parts[1]))
		if len(fields) == 0 {
			return nil, fmt.Errorf("preprocess: column %q row %d: %q has an empty metric segment", name, i, s)
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("preprocess: column %q row %d: %w", name, i, err)
		}
		vals[i] = v
	}
	return dataset.NewFloatColumn(name, vals, nil), nil
}

// parseSalary strips currency formatting and parses the remainder through
// decimal so values like "$7,000,000" survive exactly.
func parseSalary(t *dataset.Table, name string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindString {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want string", name, c.Kind)
	}

	vals := make([]float64, c.Len())
	for i, s := range c.Strings {
		if !c.Valid[i] {
			return nil, fmt.Errorf("preprocess: column %q row %d is missing", name, i)
		}
		d, err := decimal.NewFromString(currencyStripper.Replace(s))
		if err != nil {
			return nil, fmt.Errorf("preprocess: column %q row %d: %w", name, i, err)
		}
		vals[i] = d.InexactFloat64()
	}
	return dataset.NewFloatColumn(name, vals, nil), nil
}

// binarizeCountry collapses every value other than the literal "USA" into
// "Not-USA", missing entries included.
func binarizeCountry(t *dataset.Table, name string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindString {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want string", name, c.Kind)
	}

	out := make([]string, c.Len())
	for i, s := range c.Strings {
		if c.Valid[i] && s == "USA" {
			out[i] = "USA"
		} else {
			out[i] = "Not-USA"
		}
	}
	return dataset.NewStringColumn(name, out, nil), nil
}

// replaceLiteral swaps exact matches of from for to, leaving everything else
// untouched.
func replaceLiteral(t *dataset.Table, name, from, to string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.KindString {
		return nil, fmt.Errorf("preprocess: column %q has kind %s, want string", name, c.Kind)
	}

	out := make([]string, c.Len())
	valid := append([]bool(nil), c.Valid...)
	for i, s := range c.Strings {
		if valid[i] && s == from {
			out[i] = to
		} else {
			out[i] = s
		}
	}
	return dataset.NewStringColumn(name, out, valid), nil
}
