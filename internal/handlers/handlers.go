package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/R4Lcoding/RaduBrowserServer/internal/logging"
	appmiddleware "github.com/R4Lcoding/RaduBrowserServer/internal/middleware"
	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

type AccountService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (models.AccountView, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error
	ToggleBan(ctx context.Context, actingAdmin, target string) (bool, error)
	ListAccounts(ctx context.Context, actingAdmin, filter string) ([]models.AccountSummary, error)
}

type SiteService interface {
	Publish(ctx context.Context, owner, title, content string) (string, error)
	Fetch(ctx context.Context, id string) (models.Site, error)
}

type Searcher interface {
	IDs(ctx context.Context, query string) ([]string, error)
}

type Handler struct {
	accounts AccountService
	sites    SiteService
	search   Searcher
	log      logging.Logger
	secret   []byte
	tokenTTL time.Duration
}

type Option func(*Handler)

// WithSessions enables login tokens and the endpoints that need them.
func WithSessions(secret []byte, ttl time.Duration) Option {
	return func(h *Handler) {
		h.secret = secret
		h.tokenTTL = ttl
	}
}

func New(accounts AccountService, sites SiteService, search Searcher, log logging.Logger, opts ...Option) *Handler {
	h := &Handler{
		accounts: accounts,
		sites:    sites,
		search:   search,
		log:      log.With("component", "http"),
		tokenTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts every endpoint on r. loginLimit wraps /login only.
func (h *Handler) RegisterRoutes(r chi.Router, loginLimit ...func(http.Handler) http.Handler) {
	r.Get("/health", Health)

	r.Post("/register", h.Register)
	r.With(loginLimit...).Post("/login", h.Login)
	r.With(h.publishSession()).Post("/create_site", h.CreateSite)
	r.Get("/search", h.Search)
	r.Get("/site/*", h.GetSite)
	r.Get("/admin/users", h.ListUsers)

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireSession(h.secret))
		r.Post("/change_password", h.ChangePassword)
		r.Post("/admin/ban", h.ToggleBan)
	})
}

// publishSession guards /create_site: once sessions are configured a
// publisher must prove who they are, otherwise the owner field is trusted.
func (h *Handler) publishSession() func(http.Handler) http.Handler {
	if len(h.secret) > 0 {
		return appmiddleware.RequireSession(h.secret)
	}
	return appmiddleware.OptionalSession(h.secret)
}

func Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse is the envelope of every mutating endpoint.
type StatusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

// fail answers a refused operation. Domain refusals keep status 200 so
// clients read the reason from the envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msgs map[error]string) {
	status, msg := classify(err, msgs)
	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	}
	respondJSON(w, status, StatusResponse{Success: false, Error: msg})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
