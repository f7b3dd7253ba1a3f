package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
	"github.com/R4Lcoding/RaduBrowserServer/internal/session"
)

type CreateSiteRequest struct {
	Owner   string `json:"owner"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CreateSiteResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

type SearchResponse struct {
	Results []string `json:"results"`
}

// CreateSite publishes a site. With a session token the owner defaults to
// the token's user and may not name anyone else. Without sessions configured
// any registered, unbanned owner may be named.
func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if claims, ok := session.FromContext(r.Context()); ok {
		if req.Owner == "" {
			req.Owner = claims.Username()
		}
		if req.Owner != claims.Username() {
			respondJSON(w, http.StatusForbidden, StatusResponse{Error: "Cannot publish for another user"})
			return
		}
	}

	id, err := h.sites.Publish(r.Context(), req.Owner, req.Title, req.Content)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, CreateSiteResponse{Success: true, URL: id})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ids, err := h.search.IDs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error(r.Context(), "search", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to search sites")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, SearchResponse{Results: ids})
}

// GetSite serves /site/{id}; the identifier itself contains a slash.
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if id == "" {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}
	site, err := h.sites.Fetch(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "fetch site", "id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load site")
		return
	}
	respondJSON(w, http.StatusOK, site)
}
