package providers

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/andybalholm/brotli"

	"course-validator/internal/domain"
	"course-validator/internal/mappers"
)

type mockCatalogProvider struct {
	doc mappers.CatalogDocument
	err error
}

func (m mockCatalogProvider) Name() string { return "mock" }

func (m mockCatalogProvider) CatalogDocument(ctx context.Context) (mappers.CatalogDocument, error) {
	return m.doc, m.err
}

var _ CatalogProvider = mockCatalogProvider{}

func ptr[T any](v T) *T { return &v }

func TestLoadCatalog(t *testing.T) {
	p := mockCatalogProvider{doc: mappers.CatalogDocument{
		IECourses: []mappers.CourseRecord{
			{Code: ptr("IE101"), Name: ptr("Intro"), Credits: ptr(3)},
		},
		TechnicalElectives: []mappers.CourseRecord{
			{Code: ptr("IE401"), Name: ptr("Simulation"), Credits: ptr(3)},
		},
	}}

	cat, stats, err := LoadCatalog(context.Background(), p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Expected 2 courses, got %d", cat.Len())
	}
	if stats.Total != 2 || stats.IECourses != 1 || stats.TechnicalElectives != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestLoadCatalogMalformed(t *testing.T) {
	p := mockCatalogProvider{doc: mappers.CatalogDocument{
		IECourses: []mappers.CourseRecord{{Code: ptr("IE101"), Credits: ptr(3)}},
	}}

	_, _, err := LoadCatalog(context.Background(), p)
	if !errors.Is(err, domain.ErrMalformedCatalog) {
		t.Errorf("Expected ErrMalformedCatalog, got %v", err)
	}
}

func TestLoadCatalogProviderError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := LoadCatalog(context.Background(), mockCatalogProvider{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Expected provider error to be wrapped, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	testCases := []struct {
		name     string
		expected bool
	}{
		{"catalog.json", true},
		{"catalog.YAML", true},
		{"t.yml", true},
		{"t.json.br", true},
		{"t.yaml.br", true},
		{"t.csv", false},
		{"t.br", false},
		{"README", false},
	}

	for _, tc := range testCases {
		if got := Supported(tc.name); got != tc.expected {
			t.Errorf("Supported(%q) = %v, want %v", tc.name, got, tc.expected)
		}
	}
}

func TestDecodeUnsupported(t *testing.T) {
	var out map[string]any
	err := Decode("data.toml", []byte("a = 1"), &out)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

const transcriptJSON = `{
  "student_info": {"id": "1", "name": "A"},
  "semesters": [
    {"semester": "First 2022", "semester_type": "First", "year": 2022,
     "courses": [{"code": "IE101", "name": "Intro", "grade": "A", "credits": 3}]}
  ]
}`

func TestDecodeTranscriptBrotli(t *testing.T) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write([]byte(transcriptJSON)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	tr, err := DecodeTranscript("student.json.br", buf.Bytes())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(tr.Semesters) != 1 || tr.Semesters[0].TotalCredits != 3 {
		t.Errorf("Unexpected transcript %+v", tr)
	}
}

func TestDecodeTranscriptInvalid(t *testing.T) {
	doc := `{"semesters": [{"semester": "First 2022", "courses": [{"code": "", "grade": "A", "credits": 3}]}]}`
	_, err := DecodeTranscript("bad.json", []byte(doc))
	if !errors.Is(err, domain.ErrMalformedTranscript) {
		t.Errorf("Expected ErrMalformedTranscript, got %v", err)
	}
}
