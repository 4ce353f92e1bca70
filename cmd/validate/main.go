package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"course-validator/internal/app"
	"course-validator/internal/config"
	"course-validator/internal/export"
	"course-validator/internal/logger"
	"course-validator/internal/providers/file"
	"course-validator/internal/sftpclient"
	"course-validator/internal/validation"
)

type output struct {
	path  string
	write func(io.Writer) error
}

func main() {
	cfg := config.Load()

	var (
		catalog    = flag.String("catalog", cfg.CatalogSource, "catalog file or http(s) URL")
		transcript = flag.String("transcript", "", "transcript file (.json, .yaml, optionally .br)")
		outDir     = flag.String("out", "out", "output directory")
		formats    = flag.String("formats", "text,csv", "comma separated outputs: text, csv, xml")
		compress   = flag.Bool("br", false, "brotli compress the generated files")
		stdout     = flag.Bool("stdout", false, "print the text report to stdout")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated files via SFTP")
		logLevel   = flag.String("log-level", cfg.LogLevel, "log level")
	)
	flag.Parse()

	log := logger.New(*logLevel, cfg.LogFormat, os.Stderr)

	if *transcript == "" {
		log.Fatal().Msg("-transcript is required")
	}
	if *uploadSFTP && !cfg.SFTPEnabled() {
		log.Fatal().Msg("-sftp needs SFTP_HOST and SFTP_USER")
	}
	kinds, err := parseFormats(*formats)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -formats")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cat, _, err := app.LoadCatalog(ctx, cfg, *catalog, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}
	v, err := app.NewValidator(cat, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build validator")
	}

	t, err := file.ReadTranscript(*transcript)
	if err != nil {
		log.Fatal().Err(err).Str("path", *transcript).Msg("load transcript")
	}
	r, err := v.Validate(t)
	if err != nil {
		log.Fatal().Err(err).Msg("validate")
	}

	log.Info().
		Str("student", t.Student.ID).
		Int("registrations", r.Registrations()).
		Int("invalid", len(r.Invalid())).
		Int("credit_notices", len(r.CreditNotices())).
		Int("unknown", len(r.Unknown)).
		Str("standing", string(r.Standing())).
		Msg("transcript validated")

	if *stdout {
		if err := export.WriteSummaryReport(os.Stdout, r, time.Now()); err != nil {
			log.Fatal().Err(err).Msg("print report")
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output dir")
	}
	outs := outputs(*outDir, export.SafeBaseName(t.Student.ID, *transcript), kinds, *compress, r, time.Now())
	var paths []string
	for _, o := range outs {
		if err := export.WriteFile(o.path, o.write); err != nil {
			log.Fatal().Err(err).Msg("write output")
		}
		log.Info().Str("path", o.path).Msg("wrote")
		paths = append(paths, o.path)
	}

	if *uploadSFTP {
		upCfg := sftpclient.FromConfig(cfg)
		upCtx, upCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer upCancel()
		if err := sftpclient.UploadFiles(upCtx, upCfg, paths); err != nil {
			log.Fatal().Err(err).Msg("sftp upload")
		}
		log.Info().Int("files", len(paths)).Str("dest", fmt.Sprintf("sftp://%s:%d%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir)).Msg("uploaded")
	}

	if len(r.Invalid()) > 0 {
		os.Exit(2)
	}
}

func parseFormats(s string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "":
			continue
		case "text", "csv", "xml":
			out[f] = true
		default:
			return nil, fmt.Errorf("unknown format %q", f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no output format selected")
	}
	return out, nil
}

func outputs(dir, base string, kinds map[string]bool, compress bool, r *validation.Report, now time.Time) []output {
	name := func(suffix string) string {
		p := filepath.Join(dir, base+suffix)
		if compress {
			p += ".br"
		}
		return p
	}

	var outs []output
	if kinds["text"] {
		outs = append(outs, output{name("_report.txt"), func(w io.Writer) error { return export.WriteSummaryReport(w, r, now) }})
	}
	if kinds["csv"] {
		outs = append(outs,
			output{name("_results.csv"), func(w io.Writer) error { return export.WriteResultsCSV(w, r) }},
			output{name("_semesters.csv"), func(w io.Writer) error { return export.WriteSemesterSummaryCSV(w, r) }},
		)
	}
	if kinds["xml"] {
		outs = append(outs, output{name("_results.xml"), func(w io.Writer) error { return export.WriteResultsXML(w, r) }})
	}
	return outs
}

