package preprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/courtmetrics/nbaprep/internal/dataset"
)

func TestPipelineRun(t *testing.T) {
	p := NewPipeline(zaptest.NewLogger(t))
	features, target, err := p.Run(filepath.Join("testdata", "nba_sample.csv"))
	require.NoError(t, err)

	t.Run("Target", func(t *testing.T) {
		assert.Equal(t, "salary", target.Name)
		assert.Equal(t, []float64{7000000, 37436858, 79568, 177598, 27504630}, target.Values)
	})

	t.Run("Shape", func(t *testing.T) {
		rows, cols := features.Matrix.Dims()
		assert.Equal(t, 5, rows)
		assert.Equal(t, len(features.Columns), cols)
		assert.Len(t, features.Columns, 32)
	})

	t.Run("SurvivingNumerics", func(t *testing.T) {
		// experience correlates strongest with salary in this sample, so the
		// collinearity filter keeps it and drops rating, age and bmi
		assert.Equal(t, "experience", features.Columns[0])
		assert.NotContains(t, features.Columns, "rating")
		assert.NotContains(t, features.Columns, "age")
		assert.NotContains(t, features.Columns, "bmi")
	})

	t.Run("EncodedCategories", func(t *testing.T) {
		assert.Contains(t, features.Columns, "USA")
		assert.Contains(t, features.Columns, "Not-USA")
		assert.Contains(t, features.Columns, "No Team")
		assert.Contains(t, features.Columns, "Undrafted")
	})

	t.Run("ConsumedColumnsGone", func(t *testing.T) {
		for _, name := range []string{
			"salary", "height", "weight", "b_day", "draft_year", "version",
			"full_name", "jersey", "team", "position", "country", "college",
		} {
			assert.NotContains(t, features.Columns, name)
		}
	})
}

func TestPipelineRunErrors(t *testing.T) {
	p := NewPipeline(nil)

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := p.Run(filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load dataset")
	})

	t.Run("StageErrorPropagates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partial.csv")
		require.NoError(t, os.WriteFile(path, []byte("full_name,salary\nLuka Doncic,$100\n"), 0o644))

		_, _, err := p.Run(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
		assert.Contains(t, err.Error(), "clean:")
	})
}
