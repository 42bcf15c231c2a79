package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sandtoninsights/api/internal/infra/refdata"
	"github.com/sandtoninsights/api/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSuburbServer(t *testing.T) *chi.Mux {
	t.Helper()

	store, err := refdata.Load("../../../../data")
	require.NoError(t, err)

	cfg := store.Generalist()
	recommendUC := usecase.NewRecommendAgentsUseCase(
		store.AllAgents(),
		usecase.GeneralistByTrackRecord(cfg.MinRecentSales, cfg.MultiAreaAgencies),
	)
	suburbHandler := NewSuburbHandler(store, recommendUC)
	agentHandler := NewAgentHandler(store)

	r := chi.NewRouter()
	r.Get("/api/suburbs", suburbHandler.HandleList)
	r.Get("/api/suburbs/{slug}", suburbHandler.HandleGet)
	r.Get("/api/suburbs/{slug}/agents", suburbHandler.HandleAgents)
	r.Get("/api/agents", agentHandler.HandleList)
	r.Get("/api/agents/{id}", agentHandler.HandleGet)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSuburbList(t *testing.T) {
	r := newSuburbServer(t)

	rec := get(r, "/api/suburbs")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		City    string `json:"city"`
		Suburbs []struct {
			Slug      string `json:"slug"`
			PriceBand string `json:"price_band"`
		} `json:"suburbs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sandton", resp.City)
	require.NotEmpty(t, resp.Suburbs)
	assert.NotEmpty(t, resp.Suburbs[0].PriceBand)
}

func TestSuburbDetailAndRelated(t *testing.T) {
	r := newSuburbServer(t)

	rec := get(r, "/api/suburbs/hurlingham")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Slug             string `json:"slug"`
		PriceBandDisplay string `json:"price_band_display"`
		Related          []struct {
			Slug string `json:"slug"`
		} `json:"related"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hurlingham", resp.Slug)
	assert.NotEmpty(t, resp.PriceBandDisplay)
	assert.NotEmpty(t, resp.Related)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/suburbs/atlantis").Code)
}

func TestSuburbAgentsRanked(t *testing.T) {
	r := newSuburbServer(t)

	rec := get(r, "/api/suburbs/hurlingham/agents")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Suburb string `json:"suburb"`
		Agents []struct {
			ID         string `json:"id"`
			Priority   int    `json:"priority,omitempty"`
			Generalist bool   `json:"generalist"`
		} `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Agents, 3)

	// Hurlingham has three specific profiles: ag_01 (1), ag_03 (2), ag_02 (3).
	assert.Equal(t, "ag_01", resp.Agents[0].ID)
	assert.Equal(t, "ag_03", resp.Agents[1].ID)
	assert.Equal(t, "ag_02", resp.Agents[2].ID)
	for _, a := range resp.Agents {
		assert.False(t, a.Generalist)
	}
}

func TestSuburbAgentsBackfillForThinSuburb(t *testing.T) {
	r := newSuburbServer(t)

	// Sandown has a single specific profile (ag_06); the rest are generalists.
	rec := get(r, "/api/suburbs/sandown/agents")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Agents []struct {
			ID         string `json:"id"`
			Generalist bool   `json:"generalist"`
		} `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Agents, 3)
	assert.Equal(t, "ag_06", resp.Agents[0].ID)
	assert.False(t, resp.Agents[0].Generalist)
	assert.True(t, resp.Agents[1].Generalist)
	assert.True(t, resp.Agents[2].Generalist)
}

func TestAgentEndpoints(t *testing.T) {
	r := newSuburbServer(t)

	rec := get(r, "/api/agents/ag_01")
	require.Equal(t, http.StatusOK, rec.Code)

	var agent struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agent))
	assert.Equal(t, "Sarah Jenkins", agent.Name)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/agents/ag_999").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/agents").Code)
}
