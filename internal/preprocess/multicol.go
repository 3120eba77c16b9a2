package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/courtmetrics/nbaprep/internal/dataset"
)

// correlationLimit is the absolute pairwise correlation beyond which two
// numeric features are considered redundant.
const correlationLimit = 0.5

// FilterCollinear removes numeric columns that correlate too strongly with
// another numeric column, keeping whichever of the pair correlates more with
// the target. String columns pass through untouched.
//
// The correlation matrix is computed once up front and the full ordered pair
// scan runs against it unchanged, so cascading drops can remove more columns
// than a recomputing loop would. The pair comparison uses signed correlation
// with the target, so a strongly negative column loses to a weakly positive
// one. An exact tie removes both members of the pair, and dropping a column
// an earlier pair already removed is a no-op.
func FilterCollinear(t *dataset.Table) (*dataset.Table, error) {
	numeric := t.NumericColumns()
	names := make([]string, len(numeric))
	data := make([][]float64, len(numeric))
	for i, c := range numeric {
		names[i] = c.Name
		data[i] = c.Float64s()
	}

	tgt := -1
	for i, n := range names {
		if n == targetColumn {
			tgt = i
			break
		}
	}
	if tgt < 0 {
		return nil, fmt.Errorf("preprocess: numeric target %q: %w", targetColumn, dataset.ErrColumnNotFound)
	}

	for i, c := range numeric {
		if stat.Variance(data[i], nil) == 0 {
			return nil, fmt.Errorf("preprocess: column %q: %w", c.Name, dataset.ErrZeroVariance)
		}
	}

	corr := make([][]float64, len(data))
	for i := range data {
		corr[i] = make([]float64, len(data))
		for j := range data {
			corr[i][j] = stat.Correlation(data[i], data[j], nil)
		}
	}

	var drops []string
	for i := range names {
		for j := range names {
			if i == tgt || j == tgt || i == j {
				continue
			}
			if math.Abs(corr[i][j]) <= correlationLimit {
				continue
			}
			if corr[i][tgt] > corr[j][tgt] {
				drops = append(drops, names[j])
			} else {
				drops = append(drops, names[i])
			}
		}
	}
	if len(drops) == 0 {
		return t, nil
	}
	return t.DropIgnoreMissing(drops...), nil
}
