// Package sites is the site directory: publishing, fetching and enumerating
// the text sites users put online.
package sites

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/R4Lcoding/RaduBrowserServer/internal/db"
	"github.com/R4Lcoding/RaduBrowserServer/internal/logging"
	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

var tracer = otel.Tracer("sites")

// Authenticator decides whether a username may publish.
type Authenticator interface {
	Authenticate(ctx context.Context, username string) error
}

type Directory struct {
	sites *db.Collection[models.Site]
	auth  Authenticator
	log   logging.Logger
}

func NewDirectory(store db.Store, auth Authenticator, log logging.Logger) *Directory {
	return &Directory{
		sites: db.NewCollection(store, db.SitesCollection, func(key string, s *models.Site) {
			s.ID = key
		}),
		auth: auth,
		log:  log.With("component", "sites"),
	}
}

// Publish creates or overwrites the site owner/title and returns its
// identifier. The owner must be a registered, unbanned account.
func (d *Directory) Publish(ctx context.Context, owner, title, content string) (string, error) {
	ctx, span := tracer.Start(ctx, "Sites.Directory.Publish")
	defer span.End()

	if owner == "" {
		return "", fmt.Errorf("owner required: %w", models.ErrInvalidInput)
	}
	if err := d.auth.Authenticate(ctx, owner); err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrBanned) {
			return "", fmt.Errorf("owner %q cannot publish: %w: %w", owner, models.ErrInvalidInput, err)
		}
		return "", err
	}

	site, err := models.NewSite(owner, title, content)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("site.id", site.ID))

	err = d.sites.Update(ctx, func(sites map[string]models.Site) error {
		sites[site.ID] = site
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("save site: %w", err)
	}

	d.log.Info(ctx, "site published", "id", site.ID, "owner", owner)
	return site.ID, nil
}

func (d *Directory) Fetch(ctx context.Context, id string) (models.Site, error) {
	ctx, span := tracer.Start(ctx, "Sites.Directory.Fetch")
	defer span.End()

	sites, err := d.sites.Load(ctx)
	if err != nil {
		return models.Site{}, fmt.Errorf("load sites: %w", err)
	}
	site, ok := sites[id]
	if !ok {
		return models.Site{}, models.ErrNotFound
	}
	return site, nil
}

// ListAll returns every site ordered by identifier.
func (d *Directory) ListAll(ctx context.Context) ([]models.Site, error) {
	sites, err := d.sites.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}

	out := make([]models.Site, 0, len(sites))
	for _, site := range sites {
		out = append(out, site)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
