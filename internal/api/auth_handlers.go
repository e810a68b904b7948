package api

import (
	"net/http"

	"github.com/storeapp/store-server/internal/http/response"
)

// credentialsRequest is the request body for session issuing.
type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=1024"`
}

// handleLogin verifies credentials and issues a fresh session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger.Logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	token, err := s.catalog.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	response.OK(w, map[string]string{"session_id": token}, s.logger.Logger)
}

// handleLogout revokes the session presented in the request header.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if session == nil {
		response.Forbidden(w, "invalid session id", s.logger.Logger)
		return
	}

	if err := s.catalog.Auth.Logout(r.Context(), session.Token); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	response.Empty(w)
}
