package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"course-validator/internal/batch"
	"course-validator/internal/domain"
	"course-validator/internal/validation"
)

func outcome(id, source string) batch.Outcome {
	return batch.Outcome{
		Source: source,
		Report: &validation.Report{Transcript: domain.Transcript{Student: domain.StudentInfo{ID: id}}},
	}
}

func TestOutputBases(t *testing.T) {
	outcomes := []batch.Outcome{
		outcome("6312345", "in/a.json"),
		outcome("", "in/somchai.yaml.br"),
		{Source: "in/broken.json"},
		outcome("6312345", "in/b.json"),
		outcome("6410/545", "in/c.json"),
	}

	expected := []string{"6312345", "somchai", "", "6312345_3", "6410_545"}
	if got := outputBases(outcomes); !reflect.DeepEqual(got, expected) {
		t.Errorf("outputBases() = %v, want %v", got, expected)
	}
}

func TestOutputBasesStayInOutputDir(t *testing.T) {
	ids := []string{"../../etc/evil", "..", "a\\b", "x/../../y"}

	for _, id := range ids {
		base := outputBases([]batch.Outcome{outcome(id, "in/x.json")})[0]
		p := filepath.Join("out", base+"_results.csv")
		if filepath.Dir(p) != "out" {
			t.Errorf("id %q: expected a file directly under out/, got %s", id, p)
		}
		if strings.ContainsAny(base, `/\`) {
			t.Errorf("id %q: expected no separators in %q", id, base)
		}
	}
}

func TestReportOutputs(t *testing.T) {
	outcomes := []batch.Outcome{
		outcome("6312345", "in/a.json"),
		{Source: "in/broken.json", Err: errors.New("bad")},
		outcome("6312345", "in/b.json"),
	}

	var paths []string
	for _, o := range reportOutputs("out", true, outcomes) {
		paths = append(paths, o.path)
	}
	expected := []string{
		filepath.Join("out", "6312345_results.csv.br"),
		filepath.Join("out", "6312345_semesters.csv.br"),
		filepath.Join("out", "6312345_2_results.csv.br"),
		filepath.Join("out", "6312345_2_semesters.csv.br"),
	}
	if !reflect.DeepEqual(paths, expected) {
		t.Errorf("reportOutputs() = %v, want %v", paths, expected)
	}
}

func TestWriteOutputsContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	body := func(s string) func(io.Writer) error {
		return func(w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		}
	}
	outs := []output{
		{filepath.Join(dir, "a.csv"), body("a")},
		{filepath.Join(dir, "missing", "b.csv"), body("b")},
		{filepath.Join(dir, "c.csv"), body("c")},
	}

	written, errs := writeOutputs(context.Background(), outs, 2)

	if len(errs) != 1 || errs[0].Index != 1 {
		t.Fatalf("Expected one error for index 1, got %v", errs)
	}
	expected := []string{outs[0].path, outs[2].path}
	if !reflect.DeepEqual(written, expected) {
		t.Errorf("Expected written %v, got %v", expected, written)
	}
	if b, err := os.ReadFile(outs[2].path); err != nil || string(b) != "c" {
		t.Errorf("Expected c.csv to hold %q, got %q (%v)", "c", b, err)
	}
}
