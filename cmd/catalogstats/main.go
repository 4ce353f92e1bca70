package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"course-validator/internal/app"
	"course-validator/internal/catalogdiff"
	"course-validator/internal/config"
	"course-validator/internal/logger"
	"course-validator/internal/mappers"
)

func main() {
	cfg := config.Load()

	var (
		catalog = flag.String("catalog", cfg.CatalogSource, "catalog file or http(s) URL")
		compare = flag.String("compare", "", "previous catalog version to diff against")
	)
	flag.Parse()

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cat, stats, err := app.LoadCatalog(ctx, cfg, *catalog, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}
	printStats(os.Stdout, stats, cat.Len())

	if *compare == "" {
		return
	}
	prev, _, err := app.LoadCatalog(ctx, cfg, *compare, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load previous catalog")
	}
	printDiff(os.Stdout, catalogdiff.Diff(prev, cat))
}

// printStats writes per-section counts. unique differs from the total when a
// later section redefines a code.
func printStats(w io.Writer, s mappers.CatalogStats, unique int) {
	fmt.Fprintf(w, "Industrial engineering courses: %d\n", s.IECourses)
	fmt.Fprintf(w, "Other related courses:          %d\n", s.OtherCourses)
	fmt.Fprintf(w, "General education courses:      %d\n", s.GenEdCourses)
	fmt.Fprintf(w, "Technical electives:            %d\n", s.TechnicalElectives)
	fmt.Fprintf(w, "Total entries:                  %d\n", s.Total)
	fmt.Fprintf(w, "Unique course codes:            %d\n", unique)
}

func printDiff(w io.Writer, d catalogdiff.Result) {
	fmt.Fprintln(w)
	if d.Empty() {
		fmt.Fprintln(w, "No changes against previous catalog")
		return
	}
	fmt.Fprintf(w, "Added: %d, Changed: %d, Removed: %d\n", len(d.Added), len(d.Changed), len(d.Removed))
	for _, e := range d.Added {
		fmt.Fprintf(w, "+ %-10s %s\n", e.Code, e.Name)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "~ %-10s %s (%s)\n", c.Code, c.New.Name, strings.Join(c.Fields, ", "))
	}
	for _, e := range d.Removed {
		fmt.Fprintf(w, "- %-10s %s\n", e.Code, e.Name)
	}
}
