package trainer

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthguard/pkg/data"
	"healthguard/pkg/dataprep"
	"healthguard/pkg/disease"
	"healthguard/pkg/pipeline"
	"healthguard/pkg/registry"
)

// Runner trains diseases from their raw datasets and saves the results.
type Runner struct {
	registry   *registry.Registry
	datasetDir string
	logger     *log.Logger
	now        func() time.Time
	newRunID   func() string
}

type RunnerOption func(*Runner)

// WithLogger sends progress messages to l. Runners are silent by default.
func WithLogger(l *log.Logger) RunnerOption { return func(r *Runner) { r.logger = l } }

// WithClock overrides the time stamped on saved schemas.
func WithClock(now func() time.Time) RunnerOption { return func(r *Runner) { r.now = now } }

// WithRunID overrides how run identifiers are generated.
func WithRunID(f func() string) RunnerOption { return func(r *Runner) { r.newRunID = f } }

func NewRunner(reg *registry.Registry, datasetDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry:   reg,
		datasetDir: datasetDir,
		logger:     log.New(io.Discard, "", 0),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome is the result of training one disease. Exactly one of Report and
// Err is set.
type Outcome struct {
	Disease disease.Disease
	Report  *Report
	Err     error
}

// Run reads, normalizes and trains one disease, then persists its classifier
// and schema. Nothing is saved when any step fails.
func (r *Runner) Run(ctx context.Context, d disease.Disease) (*Report, error) {
	profile, ok := disease.Lookup(d)
	if !ok {
		return nil, fmt.Errorf("no training profile for %q", d)
	}

	path := filepath.Join(r.datasetDir, profile.Dataset)
	r.logger.Printf("[%s] reading %s", d, path)
	recs, err := data.ReadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", d, err)
	}

	table, err := dataprep.Normalize(recs, profile.Rules)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", d, err)
	}
	schema, err := pipeline.BuildSchema(table)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", d, err)
	}
	schema.Disease = string(d)
	schema.RunID = r.newRunID()
	schema.TrainedAt = r.now().UTC()
	r.logger.Printf("[%s] %d rows, %d features", d, len(table.Rows), schema.Len())

	m, report, err := Train(table, schema, DefaultConfig(profile.MaxIter))
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", d, err)
	}
	r.logger.Printf("[%s] fitted in %d iterations, loss %.4f", d, report.Iterations, report.Loss)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("train %s: %w", d, err)
	}
	if err := r.registry.Save(ctx, d, m, schema); err != nil {
		return nil, fmt.Errorf("train %s: %w", d, err)
	}
	r.logger.Printf("[%s] saved run %s", d, schema.RunID)
	return report, nil
}

// RunAll trains the given diseases concurrently. A failure is recorded in
// that disease's Outcome and never stops the others. Outcomes follow the
// order of diseases.
func (r *Runner) RunAll(ctx context.Context, diseases []disease.Disease) []Outcome {
	out := make([]Outcome, len(diseases))
	var wg sync.WaitGroup
	for i, d := range diseases {
		wg.Add(1)
		go func(i int, d disease.Disease) {
			defer wg.Done()
			report, err := r.Run(ctx, d)
			out[i] = Outcome{Disease: d, Report: report, Err: err}
			if err != nil {
				r.logger.Printf("[%s] failed: %v", d, err)
			}
		}(i, d)
	}
	wg.Wait()
	return out
}

// Failed lists the diseases whose outcome carries an error.
func Failed(outcomes []Outcome) []disease.Disease {
	var failed []disease.Disease
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.Disease)
		}
	}
	return failed
}
