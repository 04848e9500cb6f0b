package core

import (
	"net/http"
)

// healthResponse is the JSON response body for the health check endpoint.
type healthResponse struct {
	Status       string `json:"status"`
	IssuedTokens int    `json:"issued_tokens"`
}

// HandleHealth reports liveness along with the number of reply tokens the
// mock has issued so far. The mock has no external dependencies, so it is
// healthy whenever it can answer.
//
// This endpoint is public (no authentication required) and is mounted at GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, healthResponse{
		Status:       "healthy",
		IssuedTokens: s.Ledger.Len(),
	})
}
