package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"course-validator/internal/domain"
	"course-validator/internal/validation"
)

// Metrics collects validation run statistics on its own registry so a
// batch run can be written out as a node-exporter textfile.
type Metrics struct {
	Registry *prometheus.Registry

	TranscriptsTotal *prometheus.CounterVec
	// Registration outcomes by result (valid, invalid).
	RegistrationsTotal *prometheus.CounterVec
	CreditNotices      prometheus.Counter
	UnknownCourses     prometheus.Counter
	NonConverged       prometheus.Counter
	PropagationPasses  prometheus.Histogram
	ValidateLatency    prometheus.Histogram
	// Students per academic standing in the last run.
	Standing *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		TranscriptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "course_validator_transcripts_total",
			Help: "Transcripts processed by status",
		}, []string{"status"}),
		RegistrationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "course_validator_registrations_total",
			Help: "Course registrations evaluated by result",
		}, []string{"result"}),
		CreditNotices: f.NewCounter(prometheus.CounterOpts{
			Name: "course_validator_credit_notices_total",
			Help: "Semesters registered above the credit policy",
		}),
		UnknownCourses: f.NewCounter(prometheus.CounterOpts{
			Name: "course_validator_unknown_courses_total",
			Help: "Registrations whose course code is not in the catalog",
		}),
		NonConverged: f.NewCounter(prometheus.CounterOpts{
			Name: "course_validator_propagation_nonconverged_total",
			Help: "Transcripts whose invalidation propagation hit the pass cap",
		}),
		PropagationPasses: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "course_validator_propagation_passes",
			Help:    "Propagation passes per transcript",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10},
		}),
		ValidateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "course_validator_validate_duration_seconds",
			Help:    "Duration of a single transcript validation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		Standing: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "course_validator_students_by_standing",
			Help: "Students per academic standing",
		}, []string{"standing"}),
	}
}

// ObserveReport records one successful validation.
func (m *Metrics) ObserveReport(r *validation.Report, d time.Duration) {
	if m == nil || r == nil {
		return
	}
	m.TranscriptsTotal.WithLabelValues("ok").Inc()
	for _, res := range r.Results {
		switch {
		case res.Kind == domain.KindCreditLimit:
			m.CreditNotices.Inc()
		case res.IsValid:
			m.RegistrationsTotal.WithLabelValues("valid").Inc()
		default:
			m.RegistrationsTotal.WithLabelValues("invalid").Inc()
		}
	}
	m.UnknownCourses.Add(float64(len(r.Unknown)))
	if !r.Converged {
		m.NonConverged.Inc()
	}
	m.PropagationPasses.Observe(float64(r.Passes))
	m.ValidateLatency.Observe(d.Seconds())
	m.Standing.WithLabelValues(string(r.Standing())).Inc()
}

// ObserveFailure records a transcript that could not be validated.
func (m *Metrics) ObserveFailure() {
	if m != nil {
		m.TranscriptsTotal.WithLabelValues("failed").Inc()
	}
}

// WriteTextfile writes the registry in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
