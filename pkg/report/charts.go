package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"healthguard/pkg/trainer"
)

const bins = 10

var (
	negativeColor = color.RGBA{R: 70, G: 130, B: 180, A: 160}
	positiveColor = color.RGBA{R: 220, G: 60, B: 60, A: 160}
)

// HoldoutHistogram plots the holdout probabilities of one disease, split by
// true class.
func HoldoutHistogram(r *trainer.Report, filename string) error {
	if len(r.HoldoutProba) == 0 {
		return errors.New("report has no holdout scores")
	}
	var neg, pos plotter.Values
	for i, p := range r.HoldoutProba {
		if r.HoldoutTrue[i] == 1 {
			pos = append(pos, p)
		} else {
			neg = append(neg, p)
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s holdout (accuracy %.3f)", r.Disease.Title(), r.Accuracy)
	p.X.Label.Text = "predicted probability"
	p.Y.Label.Text = "rows"
	p.X.Min, p.X.Max = 0, 1

	for _, s := range []struct {
		name  string
		vals  plotter.Values
		color color.Color
	}{
		{"no " + r.Disease.Title(), neg, negativeColor},
		{r.Disease.Title(), pos, positiveColor},
	} {
		if len(s.vals) == 0 {
			continue
		}
		h, err := plotter.NewHist(s.vals, bins)
		if err != nil {
			return fmt.Errorf("histogram: %w", err)
		}
		h.FillColor = s.color
		p.Add(h)
		p.Legend.Add(s.name, h)
	}
	p.Legend.Top = true

	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

// AccuracyChart draws one bar per disease.
func AccuracyChart(reports []*trainer.Report, filename string) error {
	if len(reports) == 0 {
		return errors.New("no reports to chart")
	}
	vals := make(plotter.Values, len(reports))
	names := make([]string, len(reports))
	for i, r := range reports {
		vals[i] = r.Accuracy
		names[i] = r.Disease.Title()
	}

	p := plot.New()
	p.Title.Text = "Holdout accuracy"
	p.Y.Label.Text = "accuracy"
	p.Y.Min, p.Y.Max = 0, 1

	bars, err := plotter.NewBarChart(vals, vg.Points(40))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = negativeColor
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

// WriteAll renders a histogram per report and the accuracy chart into dir
// and returns the files written.
func WriteAll(dir string, reports []*trainer.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}
	var files []string
	for _, r := range reports {
		name := filepath.Join(dir, string(r.Disease)+"_holdout.png")
		if err := HoldoutHistogram(r, name); err != nil {
			return files, fmt.Errorf("%s: %w", r.Disease, err)
		}
		files = append(files, name)
	}
	name := filepath.Join(dir, "accuracy.png")
	if err := AccuracyChart(reports, name); err != nil {
		return files, err
	}
	return append(files, name), nil
}
