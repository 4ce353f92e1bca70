package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"course-validator/internal/domain"
	"course-validator/internal/mappers"
	"course-validator/internal/providers"
)

// Catalog reads a catalog document from a local file.
type Catalog struct {
	Path string
}

func (c Catalog) Name() string { return "file:" + c.Path }

func (c Catalog) CatalogDocument(ctx context.Context) (mappers.CatalogDocument, error) {
	var doc mappers.CatalogDocument
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return doc, fmt.Errorf("file: read catalog: %w", err)
	}
	err = providers.Decode(c.Path, data, &doc)
	return doc, err
}

// Transcripts loads a fixed set of transcript files, at most Limit at a
// time. Results keep the order of Paths.
type Transcripts struct {
	Paths []string
	Limit int
	Log   zerolog.Logger
}

func (t Transcripts) Name() string { return "files" }

func (t Transcripts) Transcripts(ctx context.Context) ([]providers.Loaded, error) {
	out := make([]providers.Loaded, len(t.Paths))

	g, ctx := errgroup.WithContext(ctx)
	if t.Limit > 0 {
		g.SetLimit(t.Limit)
	}
	for i, p := range t.Paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, err := ReadTranscript(p)
			out[i] = providers.Loaded{Source: p, Transcript: tr, Err: err}
			if err != nil {
				t.Log.Warn().Err(err).Str("path", p).Msg("skipping transcript")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadTranscript reads, decodes, and structurally checks one transcript file.
func ReadTranscript(path string) (domain.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("file: read transcript: %w", err)
	}
	return providers.DecodeTranscript(filepath.Base(path), data)
}

// Dir lists the supported transcript files directly inside dir, sorted by name.
func Dir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("file: list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !providers.Supported(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
