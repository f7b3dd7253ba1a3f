// Package search matches a query against every published site. There is no
// index: each search scans the full site list, which is fine for the small
// collections this program holds.
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

// SnippetLength is how many characters of content a result shows.
const SnippetLength = 120

const ellipsis = "..."

var tracer = otel.Tracer("search")

// SiteLister enumerates every site in a stable order.
type SiteLister interface {
	ListAll(ctx context.Context) ([]models.Site, error)
}

type Engine struct {
	sites SiteLister
}

func NewEngine(sites SiteLister) *Engine {
	return &Engine{sites: sites}
}

// IDs returns the identifiers of matching sites in listing order.
func (e *Engine) IDs(ctx context.Context, query string) ([]string, error) {
	matches, err := e.match(ctx, query)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, site := range matches {
		ids = append(ids, site.ID)
	}
	return ids, nil
}

// Results returns matching sites with a snippet and display URL each.
func (e *Engine) Results(ctx context.Context, query string) ([]models.SearchResult, error) {
	matches, err := e.match(ctx, query)
	if err != nil {
		return nil, err
	}
	results := make([]models.SearchResult, 0, len(matches))
	for _, site := range matches {
		results = append(results, models.SearchResult{
			Site:       site,
			DisplayURL: DisplayURL(site),
			Snippet:    Snippet(site.Content),
		})
	}
	return results, nil
}

// match keeps sites whose title or content contains query, ignoring case.
// An empty query matches everything.
func (e *Engine) match(ctx context.Context, query string) ([]models.Site, error) {
	ctx, span := tracer.Start(ctx, "Search.Engine.Match")
	defer span.End()

	all, err := e.sites.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	q := strings.ToLower(query)
	out := make([]models.Site, 0, len(all))
	for _, site := range all {
		if strings.Contains(strings.ToLower(site.Title), q) || strings.Contains(strings.ToLower(site.Content), q) {
			out = append(out, site)
		}
	}

	span.SetAttributes(
		attribute.Int("search.scanned", len(all)),
		attribute.Int("search.matched", len(out)),
	)
	return out, nil
}

// DisplayURL renders a site as owner://Title_With_Underscores.
func DisplayURL(site models.Site) string {
	return site.Owner + "://" + strings.ReplaceAll(site.Title, " ", "_")
}

// Snippet cuts content to SnippetLength characters and always appends "...".
func Snippet(content string) string {
	if utf8.RuneCountInString(content) <= SnippetLength {
		return content + ellipsis
	}
	return string([]rune(content)[:SnippetLength]) + ellipsis
}
