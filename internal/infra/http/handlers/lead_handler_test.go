package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sandtoninsights/api/internal/entity"
	"github.com/sandtoninsights/api/internal/infra/database"
	"github.com/sandtoninsights/api/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*chi.Mux, *database.MemoryLeadRepository) {
	t.Helper()

	repo := database.NewMemoryLeadRepository()
	createUC := usecase.NewCreateLeadUseCase(repo, nil, nil)
	handler := NewLeadHandler(createUC, repo, nil, false)

	r := chi.NewRouter()
	r.Post("/api/leads", handler.HandleCapture)
	r.Get("/api/leads", handler.HandleList)
	r.Get("/api/leads/{id}", handler.HandleGet)
	r.Patch("/api/leads/{id}/status", handler.HandleUpdateStatus)

	return r, repo
}

func captureBody(consent bool) map[string]any {
	return map[string]any{
		"name":              "Naledi Khumalo",
		"phone":             "+27 82 555 1234",
		"email":             "naledi@example.com",
		"buyer_type":        "upgrading",
		"budget_range":      "3-6m",
		"preferred_suburbs": []string{"bryanston", "sandown"},
		"timeline":          "3-6",
		"pre_approved":      "yes",
		"consent_given":     consent,
		"source_url":        "https://sandtoninsights.co.za/sell-house/sandton/bryanston",
	}
}

func postJSON(r http.Handler, path string, body any, ip string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent/1.0")
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCaptureLeadSuccess(t *testing.T) {
	r, repo := newTestServer(t)

	rec := postJSON(r, "/api/leads", captureBody(true), "196.25.1.1")

	require.Equal(t, http.StatusCreated, rec.Code)

	var lead entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.Equal(t, "test-agent/1.0", lead.UserAgent)
	assert.Equal(t, "196.25.1.1", lead.IPAddress)

	stored, err := repo.GetLead(context.Background(), lead.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"bryanston", "sandown"}, stored.PreferredSuburbs)
}

func TestCaptureLeadWithoutConsentRejected(t *testing.T) {
	r, repo := newTestServer(t)

	rec := postJSON(r, "/api/leads", captureBody(false), "196.25.1.2")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Details []usecase.ValidationError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "consent_given", resp.Details[0].Field)

	leads, err := repo.ListLeads(context.Background(), entity.LeadFilters{})
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestCaptureLeadInvalidJSON(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCaptureLeadRateLimited(t *testing.T) {
	r, _ := newTestServer(t)

	var last int
	for i := 0; i < 11; i++ {
		rec := postJSON(r, "/api/leads", captureBody(true), "10.0.0.9")
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// A different IP is unaffected.
	rec := postJSON(r, "/api/leads", captureBody(true), "10.0.0.10")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetLeadNotFound(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/does-not-exist", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateLeadStatusFlow(t *testing.T) {
	r, _ := newTestServer(t)

	rec := postJSON(r, "/api/leads", captureBody(true), "196.25.1.3")
	require.Equal(t, http.StatusCreated, rec.Code)

	var lead entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))

	patch := func(id, status string) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(map[string]string{"status": status})
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/leads/%s/status", id), bytes.NewReader(raw))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, patch(lead.ID, "contacted").Code)
	// Transitions are intentionally unordered; moving back is allowed.
	assert.Equal(t, http.StatusOK, patch(lead.ID, "new").Code)
	assert.Equal(t, http.StatusBadRequest, patch(lead.ID, "archived").Code)
	assert.Equal(t, http.StatusNotFound, patch("missing-id", "closed").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/"+lead.ID, nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, req)

	var got entity.Lead
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
	assert.Equal(t, entity.LeadStatusNew, got.Status)
	assert.Equal(t, lead.ConsentTextVersion, got.ConsentTextVersion)
}

func TestListLeadsFilterConjunction(t *testing.T) {
	r, _ := newTestServer(t)

	first := captureBody(true)
	first["preferred_suburbs"] = []string{"bryanston"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/leads", first, "196.25.2.1").Code)

	second := captureBody(true)
	second["preferred_suburbs"] = []string{"fourways"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/leads", second, "196.25.2.2").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/leads?status=new&suburb=bryanston", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Leads []entity.Lead `json:"leads"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{"bryanston"}, resp.Leads[0].PreferredSuburbs)

	// A filter that matches nothing returns an empty list, not an error.
	req = httptest.NewRequest(http.MethodGet, "/api/leads?status=closed&suburb=bryanston", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)

	// Invalid status filter is a client error.
	req = httptest.NewRequest(http.MethodGet, "/api/leads?status=bogus", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
