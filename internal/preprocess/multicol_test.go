package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtmetrics/nbaprep/internal/dataset"
)

func TestFilterCollinear(t *testing.T) {
	t.Run("BelowThresholdSurvives", func(t *testing.T) {
		// corr(rating, bmi) = -0.447; pairs with the target itself are exempt
		// even though corr(rating, salary) = 1.
		tbl, err := dataset.NewTable(
			dataset.NewFloatColumn("salary", []float64{1, 2, 3, 4}, nil),
			dataset.NewFloatColumn("rating", []float64{1, 2, 3, 4}, nil),
			dataset.NewFloatColumn("bmi", []float64{1, -1, 1, -1}, nil),
		)
		require.NoError(t, err)

		out, err := FilterCollinear(tbl)
		require.NoError(t, err)
		assert.Equal(t, []string{"salary", "rating", "bmi"}, out.Names())
	})

	t.Run("DropsWeakerOfPair", func(t *testing.T) {
		// corr(rating, experience) = 0.905 triggers the pair;
		// corr(rating, salary) = 1 beats corr(experience, salary) = 0.905.
		tbl, err := dataset.NewTable(
			dataset.NewFloatColumn("salary", []float64{1, 2, 3, 4, 5, 6, 7, 8}, nil),
			dataset.NewFloatColumn("rating", []float64{1, 2, 3, 4, 5, 6, 7, 8}, nil),
			dataset.NewFloatColumn("experience", []float64{2, 1, 4, 3, 6, 5, 8, 7}, nil),
		)
		require.NoError(t, err)

		out, err := FilterCollinear(tbl)
		require.NoError(t, err)
		assert.True(t, out.HasColumn("rating"))
		assert.False(t, out.HasColumn("experience"))
	})

	t.Run("SignedComparisonNotAbsolute", func(t *testing.T) {
		// age is a perfect negative correlate of the target. The comparison
		// uses signed values, so corr(rating, salary) = 1 beats
		// corr(age, salary) = -1 and age is dropped, even though the
		// magnitudes tie.
		tbl, err := dataset.NewTable(
			dataset.NewFloatColumn("salary", []float64{1, 2, 3, 4}, nil),
			dataset.NewFloatColumn("rating", []float64{1, 2, 3, 4}, nil),
			dataset.NewFloatColumn("age", []float64{4, 3, 2, 1}, nil),
		)
		require.NoError(t, err)

		out, err := FilterCollinear(tbl)
		require.NoError(t, err)
		assert.True(t, out.HasColumn("rating"))
		assert.False(t, out.HasColumn("age"))
	})

	t.Run("StaleMatrixCascade", func(t *testing.T) {
		// Correlations on the upfront matrix:
		//   corr(a, b) = 0.8,  corr(b, c) = 0.6,  corr(a, c) = 0
		//   corr(a, salary) = 0.894, corr(b, salary) = 0.447,
		//   corr(c, salary) = -0.447
		// Pair (a, b) drops b. Pair (b, c) still runs against the stale
		// matrix and drops c as the weaker correlate, although b is already
		// gone and c's only strong correlate was b. A recomputing filter
		// would keep c.
		tbl, err := dataset.NewTable(
			dataset.NewFloatColumn("salary", []float64{1, 1, -1, -1}, nil),
			dataset.NewIntColumn("a", []int64{3, 1, -1, -3}, nil),
			dataset.NewFloatColumn("b", []float64{3, -1, 1, -3}, nil),
			dataset.NewFloatColumn("c", []float64{1, -3, 3, -1}, nil),
			dataset.NewStringColumn("team", []string{"DAL", "LAL", "DEN", "MIA"}, nil),
		)
		require.NoError(t, err)

		out, err := FilterCollinear(tbl)
		require.NoError(t, err)
		assert.Equal(t, []string{"salary", "a", "team"}, out.Names())
	})

	t.Run("CategoricalUntouched", func(t *testing.T) {
		tbl, err := dataset.NewTable(
			dataset.NewFloatColumn("salary", []float64{1, 2, 3, 4}, nil),
			dataset.NewStringColumn("position", []string{"G", "F", "G", "C"}, nil),
			dataset.NewStringColumn("country", []string{"USA", "USA", "Not-USA", "USA"}, nil),
		)
		require.NoError(t, err)

		out, err := FilterCollinear(tbl)
		require.NoError(t, err)
		assert.Equal(t, []string{"salary", "position", "country"}, out.Names())
	})

	t.Run("ZeroVariance", func(t *testing.T) {
		tbl, err := dataset.NewTable(
			dataset.NewFloatColumn("salary", []float64{1, 2, 3, 4}, nil),
			dataset.NewFloatColumn("rating", []float64{88, 88, 88, 88}, nil),
		)
		require.NoError(t, err)

		_, err = FilterCollinear(tbl)
		require.Error(t, err)
		assert.ErrorIs(t, err, dataset.ErrZeroVariance)
		assert.Contains(t, err.Error(), "rating")
	})

	t.Run("MissingTarget", func(t *testing.T) {
		tbl, err := dataset.NewTable(
			dataset.NewFloatColumn("rating", []float64{1, 2, 3, 4}, nil),
			dataset.NewFloatColumn("bmi", []float64{24, 25, 26, 27}, nil),
		)
		require.NoError(t, err)

		_, err = FilterCollinear(tbl)
		assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	})
}
