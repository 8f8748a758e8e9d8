package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kestrelgames/boardhouse/internal/apperr"
)

type credentialsRequest struct {
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type authResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.BadRequestf("invalid request body: %v", err))
		return
	}

	user, token, err := h.Auth.Signup(r.Context(), req.DisplayName, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{UserID: user.ID.String(), DisplayName: user.DisplayName, Token: token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.BadRequestf("invalid request body: %v", err))
		return
	}

	user, token, err := h.Auth.Login(r.Context(), req.DisplayName, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{UserID: user.ID.String(), DisplayName: user.DisplayName, Token: token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		writeError(w, r, apperr.Unauthorizedf("missing bearer token"))
		return
	}

	user, err := h.Auth.Me(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{UserID: user.ID.String(), DisplayName: user.DisplayName})
}
