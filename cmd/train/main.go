package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"healthguard/pkg/config"
	"healthguard/pkg/disease"
	"healthguard/pkg/registry"
	"healthguard/pkg/report"
	"healthguard/pkg/trainer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	datasets := flag.String("datasets", cfg.DatasetDir, "directory holding diabetes.csv, heart.csv and kidney.csv")
	models := flag.String("models", cfg.ModelDir, "directory the trained artifacts are written to")
	plots := flag.String("plots", cfg.PlotDir, "directory for holdout charts (empty disables them)")
	only := flag.String("only", "", "comma separated diseases to train (default: all)")
	verbose := flag.Bool("v", false, "log training progress")
	flag.Parse()
	cfg.DatasetDir, cfg.ModelDir, cfg.PlotDir = *datasets, *models, *plots

	diseases, err := selectDiseases(*only)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	store, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("open model store: %v", err)
	}
	defer closeStore()

	var opts []trainer.RunnerOption
	if *verbose {
		opts = append(opts, trainer.WithLogger(log.New(os.Stderr, "train ", log.LstdFlags)))
	}
	runner := trainer.NewRunner(registry.New(store), cfg.DatasetDir, opts...)

	outcomes := runner.RunAll(ctx, diseases)
	var reports []*trainer.Report
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(os.Stdout, "%-15s FAILED: %v\n", o.Disease.Title(), o.Err)
			continue
		}
		r := o.Report
		fmt.Fprintf(os.Stdout, "%-15s accuracy %.4f  precision %.4f  recall %.4f  f1 %.4f  (%d train / %d holdout, %d features)\n",
			o.Disease.Title(), r.Accuracy, r.Precision, r.Recall, r.F1, r.TrainRows, r.TestRows, r.Features)
		reports = append(reports, r)
	}

	if cfg.PlotDir != "" && len(reports) > 0 {
		files, err := report.WriteAll(cfg.PlotDir, reports)
		if err != nil {
			log.Printf("charts: %v", err)
		}
		for _, f := range files {
			fmt.Printf("Saved chart to %s\n", f)
		}
	}

	if failed := trainer.Failed(outcomes); len(failed) > 0 {
		closeStore()
		log.Fatalf("training failed for %d of %d diseases: %v", len(failed), len(outcomes), failed)
	}
}

func selectDiseases(only string) ([]disease.Disease, error) {
	if strings.TrimSpace(only) == "" {
		return disease.All(), nil
	}
	var out []disease.Disease
	for _, name := range strings.Split(only, ",") {
		d, err := disease.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
