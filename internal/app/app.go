// Package app wires configuration into the catalog providers and the
// validation engine for the command-line tools.
package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"course-validator/internal/config"
	"course-validator/internal/domain"
	"course-validator/internal/httpx"
	"course-validator/internal/mappers"
	"course-validator/internal/providers"
	"course-validator/internal/providers/file"
	"course-validator/internal/providers/remote"
	"course-validator/internal/validation"
)

var ErrNoCatalog = errors.New("app: no catalog source (set -catalog or CATALOG_SOURCE)")

// CatalogProvider picks a remote provider for http(s) sources and a file
// provider otherwise.
func CatalogProvider(cfg config.Config, source string, log zerolog.Logger) (providers.CatalogProvider, error) {
	if source == "" {
		source = cfg.CatalogSource
	}
	if source == "" {
		return nil, ErrNoCatalog
	}
	if remote.IsURL(source) {
		return remote.Catalog{URL: source, Fetcher: httpx.NewFetcher(cfg.CatalogHTTPTimeout, log)}, nil
	}
	return file.Catalog{Path: source}, nil
}

func LoadCatalog(ctx context.Context, cfg config.Config, source string, log zerolog.Logger) (*domain.Catalog, mappers.CatalogStats, error) {
	p, err := CatalogProvider(cfg, source, log)
	if err != nil {
		return nil, mappers.CatalogStats{}, err
	}
	cat, stats, err := providers.LoadCatalog(ctx, p)
	if err != nil {
		return nil, stats, err
	}
	log.Info().Str("source", p.Name()).Int("courses", cat.Len()).Msg("catalog loaded")
	return cat, stats, nil
}

// NewValidator applies the configured credit policy and pass cap.
func NewValidator(cat *domain.Catalog, cfg config.Config, log zerolog.Logger) (*validation.Validator, error) {
	return validation.New(cat,
		validation.WithLogger(log),
		validation.WithCreditPolicy(validation.CreditPolicy{
			SummerMax:  cfg.CreditLimitSummer,
			RegularMax: cfg.CreditLimitRegular,
		}),
		validation.WithMaxPasses(cfg.MaxPropagationPasses),
	)
}
