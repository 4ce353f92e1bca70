package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"course-validator/internal/concurrency"
	"course-validator/internal/providers"
	"course-validator/internal/validation"
)

// Observer receives per-transcript outcomes, typically *metrics.Metrics.
type Observer interface {
	ObserveReport(r *validation.Report, d time.Duration)
	ObserveFailure()
}

type Options struct {
	Workers  int
	RunID    string
	Log      zerolog.Logger
	Observer Observer
}

// Outcome is the result of validating one transcript source.
type Outcome struct {
	Source   string
	Report   *validation.Report
	Err      error
	Duration time.Duration
}

func NewRunID() string { return uuid.NewString() }

// Run validates every loaded transcript against the validator's catalog on
// a bounded worker pool. Inputs that already failed to load, and transcripts
// that fail validation, become failed outcomes; the batch is never aborted
// for a single transcript. Outcomes keep input order.
func Run(ctx context.Context, v *validation.Validator, inputs []providers.Loaded, opts Options) []Outcome {
	log := opts.Log.With().Str("run_id", opts.RunID).Logger()

	outcomes, errs := concurrency.ProcessParallel(ctx, inputs, concurrency.ParallelOptions{MaxWorkers: opts.Workers},
		func(ctx context.Context, i int, in providers.Loaded) (Outcome, error) {
			out := Outcome{Source: in.Source}
			if in.Err != nil {
				out.Err = in.Err
				return out, in.Err
			}

			start := time.Now()
			r, err := v.Validate(in.Transcript)
			out.Duration = time.Since(start)
			if err != nil {
				out.Err = err
				return out, err
			}
			out.Report = r
			if opts.Observer != nil {
				opts.Observer.ObserveReport(r, out.Duration)
			}

			log.Debug().
				Str("source", in.Source).
				Str("student", r.Transcript.Student.ID).
				Int("invalid", len(r.Invalid())).
				Dur("took", out.Duration).
				Msg("transcript validated")
			return out, nil
		})

	for _, e := range errs {
		o := &outcomes[e.Index]
		if o.Source == "" {
			o.Source = inputs[e.Index].Source
		}
		if o.Err == nil {
			o.Err = e.Err
		}
		if opts.Observer != nil {
			opts.Observer.ObserveFailure()
		}
		log.Warn().Err(e.Err).Str("source", o.Source).Msg("transcript failed")
	}
	return outcomes
}

// Summary aggregates a batch of outcomes.
type Summary struct {
	RunID        string
	Total        int
	Succeeded    int
	Failed       int
	Invalid      int
	Notices      int
	Unknown      int
	NonConverged int
}

func Summarize(runID string, outcomes []Outcome) Summary {
	s := Summary{RunID: runID, Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Err != nil || o.Report == nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.Invalid += len(o.Report.Invalid())
		s.Notices += len(o.Report.CreditNotices())
		s.Unknown += len(o.Report.Unknown)
		if !o.Report.Converged {
			s.NonConverged++
		}
	}
	return s
}
