package preprocess

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/courtmetrics/nbaprep/internal/dataset"
)

// targetColumn is the column the pipeline predicts; the collinearity filter
// judges features by their correlation with it and the encoder splits it off
// as the target vector.
const targetColumn = "salary"

// Pipeline runs the preprocessing stages over a raw CSV file.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a pipeline. A nil logger disables logging.
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Run loads the dataset at path and applies Clean, Engineer, FilterCollinear
// and Encode in order, returning the feature matrix and target vector. Each
// stage consumes its predecessor's table and produces a new one; any stage
// error aborts the run.
func (p *Pipeline) Run(path string) (*Features, *Target, error) {
	start := time.Now()

	raw, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	p.logger.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", raw.Len()),
		zap.Int("columns", raw.Width()))

	cleaned, err := Clean(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("clean: %w", err)
	}
	p.stageDone("clean", cleaned)

	featured, err := Engineer(cleaned)
	if err != nil {
		return nil, nil, fmt.Errorf("engineer features: %w", err)
	}
	p.stageDone("features", featured)

	filtered, err := FilterCollinear(featured)
	if err != nil {
		return nil, nil, fmt.Errorf("filter collinear: %w", err)
	}
	p.stageDone("multicollinearity", filtered)

	features, target, err := Encode(filtered)
	if err != nil {
		return nil, nil, fmt.Errorf("encode: %w", err)
	}
	p.logger.Info("pipeline finished",
		zap.Int("rows", len(target.Values)),
		zap.Int("features", len(features.Columns)),
		zap.Duration("elapsed", time.Since(start)))

	return features, target, nil
}

func (p *Pipeline) stageDone(stage string, t *dataset.Table) {
	p.logger.Info("stage finished",
		zap.String("stage", stage),
		zap.Int("rows", t.Len()),
		zap.Int("columns", t.Width()))
}
