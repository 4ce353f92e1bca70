package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andybalholm/brotli"
	"gopkg.in/yaml.v3"

	"course-validator/internal/domain"
	"course-validator/internal/mappers"
)

var ErrUnsupportedFormat = errors.New("providers: unsupported format")

// CatalogProvider yields the raw catalog document from some source.
type CatalogProvider interface {
	Name() string
	CatalogDocument(ctx context.Context) (mappers.CatalogDocument, error)
}

// Loaded is one transcript read by a TranscriptProvider. Err is set when
// that single source could not be read or decoded.
type Loaded struct {
	Source     string
	Transcript domain.Transcript
	Err        error
}

type TranscriptProvider interface {
	Name() string
	Transcripts(ctx context.Context) ([]Loaded, error)
}

// LoadCatalog reads and maps the provider's catalog.
func LoadCatalog(ctx context.Context, p CatalogProvider) (*domain.Catalog, mappers.CatalogStats, error) {
	doc, err := p.CatalogDocument(ctx)
	if err != nil {
		return nil, mappers.CatalogStats{}, fmt.Errorf("providers: %s: %w", p.Name(), err)
	}
	cat, err := mappers.ToCatalog(doc)
	if err != nil {
		return nil, mappers.CatalogStats{}, fmt.Errorf("providers: %s: %w", p.Name(), err)
	}
	return cat, mappers.Stats(doc), nil
}

// Supported reports whether Decode understands the name's extension.
func Supported(name string) bool {
	_, _, err := format(name)
	return err == nil
}

// Decode unmarshals data according to name's extension: .json, .yaml or
// .yml, each optionally followed by .br for brotli compression.
func Decode(name string, data []byte, out any) error {
	ext, compressed, err := format(name)
	if err != nil {
		return err
	}
	if compressed {
		data, err = io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
		if err != nil {
			return fmt.Errorf("providers: brotli %s: %w", name, err)
		}
	}

	switch ext {
	case ".json":
		err = json.Unmarshal(data, out)
	default:
		err = yaml.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("providers: decode %s: %w", name, err)
	}
	return nil
}

func format(name string) (ext string, compressed bool, err error) {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, ".br") {
		compressed = true
		name = strings.TrimSuffix(name, ".br")
	}
	ext = path.Ext(name)
	switch ext {
	case ".json", ".yaml", ".yml":
		return ext, compressed, nil
	}
	return "", false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// DecodeTranscript decodes and maps a transcript document, then checks
// its structure.
func DecodeTranscript(name string, data []byte) (domain.Transcript, error) {
	var doc mappers.TranscriptDocument
	if err := Decode(name, data, &doc); err != nil {
		return domain.Transcript{}, err
	}
	t := mappers.ToTranscript(doc)
	if err := t.Validate(); err != nil {
		return domain.Transcript{}, fmt.Errorf("providers: %s: %w", name, err)
	}
	return t, nil
}
