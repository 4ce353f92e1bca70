package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"course-validator/internal/app"
	"course-validator/internal/batch"
	"course-validator/internal/concurrency"
	"course-validator/internal/config"
	"course-validator/internal/export"
	"course-validator/internal/logger"
	"course-validator/internal/metrics"
	"course-validator/internal/providers/file"
	"course-validator/internal/sftpclient"
)

func main() {
	cfg := config.Load()

	var (
		catalog     = flag.String("catalog", cfg.CatalogSource, "catalog file or http(s) URL")
		dir         = flag.String("dir", "", "directory of transcript files")
		outDir      = flag.String("out", "out", "output directory")
		workers     = flag.Int("workers", cfg.Workers, "concurrent validations")
		compress    = flag.Bool("br", false, "brotli compress the generated files")
		metricsPath = flag.String("metrics", cfg.MetricsTextfile, "write Prometheus textfile metrics to this path")
		uploadSFTP  = flag.Bool("sftp", false, "upload the generated files via SFTP")
		logLevel    = flag.String("log-level", cfg.LogLevel, "log level")
	)
	flag.Parse()

	log := logger.New(*logLevel, cfg.LogFormat, os.Stderr)
	if *dir == "" {
		log.Fatal().Msg("-dir is required")
	}
	if *uploadSFTP && !cfg.SFTPEnabled() {
		log.Fatal().Msg("-sftp needs SFTP_HOST and SFTP_USER")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	runID := batch.NewRunID()
	log = log.With().Str("run_id", runID).Logger()

	cat, _, err := app.LoadCatalog(ctx, cfg, *catalog, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}
	v, err := app.NewValidator(cat, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build validator")
	}

	paths, err := file.Dir(*dir)
	if err != nil {
		log.Fatal().Err(err).Msg("list transcripts")
	}
	loaded, err := file.Transcripts{Paths: paths, Limit: *workers, Log: log}.Transcripts(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load transcripts")
	}
	log.Info().Int("files", len(paths)).Msg("transcripts loaded")

	m := metrics.New()
	outcomes := batch.Run(ctx, v, loaded, batch.Options{
		Workers:  *workers,
		RunID:    runID,
		Log:      log,
		Observer: m,
	})

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output dir")
	}

	outs := reportOutputs(*outDir, *compress, outcomes)
	outs = append(outs, output{
		path: withExt(filepath.Join(*outDir, fmt.Sprintf("batch_summary_%s.csv", runID)), *compress),
		write: func(w io.Writer) error {
			return export.WriteBatchSummaryCSV(w, runID, outcomes)
		},
	})
	written, writeErrs := writeOutputs(ctx, outs, *workers)
	for _, e := range writeErrs {
		log.Error().Err(e.Err).Str("path", outs[e.Index].path).Msg("write output")
	}
	log.Info().Int("files", len(written)).Int("failed", len(writeErrs)).Msg("outputs written")

	if *metricsPath != "" {
		if err := m.WriteTextfile(*metricsPath); err != nil {
			log.Error().Err(err).Msg("write metrics")
		}
	}

	s := batch.Summarize(runID, outcomes)
	log.Info().
		Int("total", s.Total).
		Int("succeeded", s.Succeeded).
		Int("failed", s.Failed).
		Int("invalid_registrations", s.Invalid).
		Int("credit_notices", s.Notices).
		Int("unknown_courses", s.Unknown).
		Int("non_converged", s.NonConverged).
		Msg("batch finished")

	if *uploadSFTP {
		upCtx, upCancel := context.WithTimeout(ctx, 15*time.Minute)
		defer upCancel()
		if err := sftpclient.UploadFiles(upCtx, sftpclient.FromConfig(cfg), written); err != nil {
			log.Fatal().Err(err).Msg("sftp upload")
		}
		log.Info().Int("files", len(written)).Msg("uploaded")
	}

	if s.Failed > 0 || len(writeErrs) > 0 {
		os.Exit(1)
	}
}

type output struct {
	path  string
	write func(io.Writer) error
}

func withExt(path string, compress bool) string {
	if compress {
		return path + ".br"
	}
	return path
}

// reportOutputs lists the results and semester CSVs of every validated
// transcript, in outcome order.
func reportOutputs(dir string, compress bool, outcomes []batch.Outcome) []output {
	var outs []output
	for i, base := range outputBases(outcomes) {
		if base == "" {
			continue
		}
		r := outcomes[i].Report
		outs = append(outs,
			output{withExt(filepath.Join(dir, base+"_results.csv"), compress), func(w io.Writer) error { return export.WriteResultsCSV(w, r) }},
			output{withExt(filepath.Join(dir, base+"_semesters.csv"), compress), func(w io.Writer) error { return export.WriteSemesterSummaryCSV(w, r) }},
		)
	}
	return outs
}

// writeOutputs writes outs concurrently. One failed file does not stop the
// others; the returned paths are the files written, in input order.
func writeOutputs(ctx context.Context, outs []output, workers int) ([]string, []*concurrency.ItemError) {
	errs := concurrency.ForEach(ctx, outs, concurrency.ParallelOptions{MaxWorkers: workers}, func(_ context.Context, _ int, o output) error {
		return export.WriteFile(o.path, o.write)
	})
	failed := make(map[int]bool, len(errs))
	for _, e := range errs {
		failed[e.Index] = true
	}
	var written []string
	for i, o := range outs {
		if !failed[i] {
			written = append(written, o.path)
		}
	}
	return written, errs
}

// outputBases names each report's files. A name already taken by an earlier
// outcome gets the outcome index appended. Failed outcomes get "".
func outputBases(outcomes []batch.Outcome) []string {
	bases := make([]string, len(outcomes))
	used := make(map[string]bool, len(outcomes))
	for i, o := range outcomes {
		if o.Report == nil {
			continue
		}
		base := export.SafeBaseName(o.Report.Transcript.Student.ID, o.Source)
		if used[base] {
			base = fmt.Sprintf("%s_%d", base, i)
		}
		used[base] = true
		bases[i] = base
	}
	return bases
}
