package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nitropay-io/nitropay-go/pkg/issuer"
	"github.com/nitropay-io/nitropay-go/pkg/provider"
)

type createIntentRequest struct {
	Amount           json.RawMessage `json:"amount"`
	Token            string          `json:"token"`
	ChainID          int             `json:"chainId"`
	ExpiresInMinutes int             `json:"expiresInMinutes"`
}

func (s *Server) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	expiresIn := req.ExpiresInMinutes
	if expiresIn == 0 {
		expiresIn = s.cfg.ExpiresInMinutes
	}

	result, err := s.issuer.CreateIntent(r.Context(), issuer.CreateIntentRequest{
		Amount:           rawAmountString(req.Amount),
		Token:            req.Token,
		ChainID:          req.ChainID,
		ExpiresInMinutes: expiresIn,
	})
	if err != nil {
		s.writeIssuerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeIssuerError maps the error taxonomy onto the merchant API statuses:
// bad input 400, upstream auth 401, upstream failure 502, anything else 500.
func (s *Server) writeIssuerError(w http.ResponseWriter, err error) {
	var apiErr *provider.APIError
	switch {
	case errors.Is(err, issuer.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, provider.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &apiErr):
		writeUpstream(w, http.StatusBadGateway, apiErr.Body)
	case errors.Is(err, provider.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("Create intent failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleSupportedChains(w http.ResponseWriter, r *http.Request) {
	supported, err := s.gateway.ListChains(r.Context())
	if err != nil {
		s.writeProxyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supported)
}

func (s *Server) handleSupportedTokens(w http.ResponseWriter, r *http.Request) {
	chainID, err := strconv.Atoi(chi.URLParam(r, "chainId"))
	if err != nil || chainID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid chain id")
		return
	}

	tokens, err := s.gateway.ListTokens(r.Context(), chainID)
	if err != nil {
		s.writeProxyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) writeProxyError(w http.ResponseWriter, err error) {
	var apiErr *provider.APIError
	switch {
	case errors.Is(err, provider.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &apiErr):
		writeUpstream(w, apiErr.Status, apiErr.Body)
	case errors.Is(err, provider.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("Provider proxy request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// rawAmountString accepts the amount both as a JSON string and as a bare
// number, always handing the issuer the literal decimal text so precision is
// never lost to a float.
func rawAmountString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// writeUpstream forwards a provider error body verbatim when it is already
// JSON, so callers see the provider's own error shape instead of a re-encoded
// string; anything else is wrapped in the usual error envelope.
func writeUpstream(w http.ResponseWriter, status int, body string) {
	trimmed := strings.TrimSpace(body)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(trimmed))
		return
	}
	writeError(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
