// Health check handler for the mock engine.

package engine

import (
	"net/http"
	"time"

	"github.com/getmockd/mockconf/pkg/httputil"
	"github.com/getmockd/mockconf/pkg/mock"
)

type healthBody struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Uptime    string         `json:"uptime"`
	Routes    map[string]int `json:"routes"`
}

// handleHealth handles the liveness endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthBody{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Routes: map[string]int{
			string(mock.KindREST):    countRoutes(h.cfg.Rest),
			string(mock.KindGraphQL): countRoutes(h.cfg.GraphQL),
		},
	})
}
