package handlers

import (
	"errors"
	"net/http"

	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
	"github.com/R4Lcoding/RaduBrowserServer/internal/session"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Token    string `json:"token,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
	Confirm     string `json:"confirm"`
}

type BanRequest struct {
	Username string `json:"username"`
}

type BanResponse struct {
	Success bool `json:"success"`
	Banned  bool `json:"banned"`
}

// UserFlags is one entry of the admin user listing.
type UserFlags struct {
	IsAdmin bool `json:"is_admin"`
	Banned  bool `json:"banned"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.accounts.Register(r.Context(), req.Username, req.Password); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// Login checks credentials and, when sessions are configured, hands back a
// signed token for the protected endpoints.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	resp := LoginResponse{Success: true, Username: view.Username, IsAdmin: view.IsAdmin}
	if len(h.secret) > 0 {
		token, err := session.Issue(view.Username, view.IsAdmin, h.secret, h.tokenTTL)
		if err != nil {
			h.log.Error(r.Context(), "issue token", "err", err)
			respondError(w, http.StatusInternalServerError, "token error")
			return
		}
		resp.Token = token
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.accounts.ChangePassword(r.Context(), claims.Username(), req.OldPassword, req.NewPassword, req.Confirm)
	if err != nil {
		h.fail(w, r, err, map[error]string{models.ErrWrongPassword: msgOldPassword})
		return
	}
	respondJSON(w, http.StatusOK, StatusResponse{Success: true})
}

func (h *Handler) ToggleBan(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req BanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" {
		respondJSON(w, http.StatusOK, StatusResponse{Error: msgFillAll})
		return
	}
	banned, err := h.accounts.ToggleBan(r.Context(), claims.Username(), req.Username)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, BanResponse{Success: true, Banned: banned})
}

// ListUsers serves the admin listing. The acting admin is named by the
// "admin" query parameter.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.accounts.ListAccounts(r.Context(), r.URL.Query().Get("admin"), r.URL.Query().Get("q"))
	if errors.Is(err, models.ErrNotAuthorized) {
		respondError(w, http.StatusForbidden, msgAdminOnly)
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "list accounts", "err", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	users := make(map[string]UserFlags, len(list))
	for _, a := range list {
		users[a.Username] = UserFlags{IsAdmin: a.IsAdmin, Banned: a.IsBanned}
	}
	respondJSON(w, http.StatusOK, users)
}
