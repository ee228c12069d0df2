package infrastructure

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
)

// requireSession lets a request through only with the token of an open
// session, and hands the session's actor to the handlers.
func (h *RideShareHTTPHandler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		session, err := h.auth.Session(r.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrSessionNotFound) {
				h.writeError(r.Context(), w, err)
				return
			}
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		ctx := contextWithActor(r.Context(), domain.Actor{Token: session.Token, UserID: session.UserID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *RideShareHTTPHandler) HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	mode := domain.AuthMode(chi.URLParam(r, "mode"))
	if !mode.Valid() {
		writeMessage(w, http.StatusNotFound, "Unknown authentication mode")
		return
	}

	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	result, err := h.auth.Authenticate(ctx, mode, creds)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if mode == domain.AuthRegister {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{
		"user":      result.User,
		"token":     result.Token,
		"activeTab": domain.TabSearch,
	})
}

// HandleCurrentUser restores a session from a stored token. A token the API
// no longer accepts is dropped and answered with 401.
func (h *RideShareHTTPHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	user, session, err := h.auth.Bootstrap(ctx, bearerToken(r))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"activeTab": session.ActiveTab,
	})
}

func (h *RideShareHTTPHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.auth.Logout(ctx, actorFrom(ctx).Token); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RideShareHTTPHandler) HandleGetTab(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, err := h.auth.ActiveTab(ctx, actorFrom(ctx).Token)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.Tab{"activeTab": tab})
}

func (h *RideShareHTTPHandler) HandleSetTab(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ActiveTab domain.Tab `json:"activeTab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx := r.Context()
	if err := h.auth.SetActiveTab(ctx, actorFrom(ctx).Token, payload.ActiveTab); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.Tab{"activeTab": payload.ActiveTab})
}
