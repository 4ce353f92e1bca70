package remote

import (
	"context"
	"net/url"
	"strings"

	"course-validator/internal/httpx"
	"course-validator/internal/mappers"
	"course-validator/internal/providers"
)

// Catalog fetches a catalog document over HTTP(S). The document format is
// taken from the URL path's extension.
type Catalog struct {
	URL     string
	Fetcher *httpx.Fetcher
}

func (c Catalog) Name() string { return "remote:" + c.URL }

func (c Catalog) CatalogDocument(ctx context.Context) (mappers.CatalogDocument, error) {
	var doc mappers.CatalogDocument
	body, err := c.Fetcher.Get(ctx, c.URL)
	if err != nil {
		return doc, err
	}
	err = providers.Decode(formatName(c.URL), body, &doc)
	return doc, err
}

func formatName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	return u.Path
}

// IsURL reports whether source should be fetched rather than opened.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
