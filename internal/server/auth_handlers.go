// ABOUTME: HTTP handlers for the two auth-issuing endpoints
// ABOUTME: POST /auth/register and POST /auth/login produce bearer tokens

package server

import (
	"encoding/json"
	"net/http"
)

// authRequest is the JSON request body for register and login.
type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse is the JSON response carrying a freshly issued token.
type tokenResponse struct {
	Token string `json:"token"`
}

// statusForFlow maps a flow result tag to its HTTP status code.
func statusForFlow(kind flowKind) int {
	switch kind {
	case flowCreated:
		return http.StatusCreated
	case flowOK:
		return http.StatusOK
	case flowBadRequest:
		return http.StatusBadRequest
	case flowUnauthorized:
		return http.StatusUnauthorized
	case flowConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleRegister handles POST /auth/register.
// Responds 201 with a token, 409 on a taken username, 400 on bad input.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := s.registerFlow(r.Context(), req.Username, req.Password)
	if result.kind != flowCreated {
		s.sendJSONError(w, statusForFlow(result.kind), result.message)
		return
	}

	s.writeJSON(w, http.StatusCreated, tokenResponse{Token: result.token})
}

// handleLogin handles POST /auth/login.
// Responds 200 with a token, 401 on bad credentials, 400 on bad input.
// The 401 shape is identical for unknown usernames and wrong passwords.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := s.loginFlow(r.Context(), req.Username, req.Password)
	if result.kind != flowOK {
		s.sendJSONError(w, statusForFlow(result.kind), result.message)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{Token: result.token})
}
