package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandtoninsights/api/internal/infra/refdata"
)

type AgentHandler struct {
	Store *refdata.Store
}

func NewAgentHandler(store *refdata.Store) *AgentHandler {
	return &AgentHandler{Store: store}
}

// HandleList is GET /api/agents.
func (h *AgentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agents": h.Store.AllAgents(),
	})
}

// HandleGet is GET /api/agents/{id}.
func (h *AgentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	agent, ok := h.Store.AgentByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Agent not found"})
		return
	}

	writeJSON(w, http.StatusOK, agent)
}
