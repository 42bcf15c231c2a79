package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sandtoninsights/api/internal/entity"
	"github.com/sandtoninsights/api/internal/infra/http/middleware"
	"github.com/sandtoninsights/api/internal/usecase"
)

type LeadHandler struct {
	CreateLead  *usecase.CreateLeadUseCase
	Repo        entity.LeadRepository
	Recommend   *usecase.RecommendAgentsUseCase
	AutoAssign  bool
	rateLimiter *RateLimiter
}

func NewLeadHandler(createLead *usecase.CreateLeadUseCase, repo entity.LeadRepository, recommend *usecase.RecommendAgentsUseCase, autoAssign bool) *LeadHandler {
	return &LeadHandler{
		CreateLead:  createLead,
		Repo:        repo,
		Recommend:   recommend,
		AutoAssign:  autoAssign,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// CaptureLeadRequest is the flat payload the valuation form posts.
type CaptureLeadRequest struct {
	Name             string   `json:"name"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email,omitempty"`
	BuyerType        string   `json:"buyer_type"`
	BudgetRange      string   `json:"budget_range"`
	PreferredSuburbs []string `json:"preferred_suburbs"`
	Timeline         string   `json:"timeline"`
	PreApproved      string   `json:"pre_approved"`
	ConsentGiven     bool     `json:"consent_given"`
	SourceURL        string   `json:"source_url,omitempty"`
}

type errorResponse struct {
	Error     string                    `json:"error"`
	Retryable bool                      `json:"retryable,omitempty"`
	Details   []usecase.ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandleCapture is POST /api/leads.
func (h *LeadHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:     "Too many requests. Please try again later.",
			Retryable: true,
		})
		return
	}

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	sourceURL := req.SourceURL
	if sourceURL == "" {
		sourceURL = r.Referer()
	}

	input := usecase.LeadCreateInput{
		FormData: usecase.LeadFormData{
			Name:             req.Name,
			Phone:            req.Phone,
			Email:            req.Email,
			BuyerType:        req.BuyerType,
			BudgetRange:      req.BudgetRange,
			PreferredSuburbs: req.PreferredSuburbs,
			Timeline:         req.Timeline,
			PreApproved:      req.PreApproved,
			ConsentGiven:     req.ConsentGiven,
		},
		SourceURL: sourceURL,
		UserAgent: r.UserAgent(),
		IPAddress: clientIP,
	}

	var assignedAgentID string
	if h.AutoAssign && h.Recommend != nil && len(req.PreferredSuburbs) > 0 {
		if recs := h.Recommend.Execute(req.PreferredSuburbs[0]); len(recs) > 0 {
			assignedAgentID = recs[0].ID
		}
	}

	lead, err := h.CreateLead.Execute(ctx, input, assignedAgentID)
	if err != nil {
		var domainErr *usecase.DomainError
		if de, ok := err.(*usecase.DomainError); ok {
			domainErr = de
		}
		if domainErr != nil {
			middleware.RecordLeadCaptured("rejected")
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   domainErr.Message,
				Details: domainErr.Details,
			})
			return
		}
		middleware.RecordLeadCaptured("failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     "Failed to store your request. Please try again.",
			Retryable: true,
		})
		return
	}

	middleware.RecordLeadCaptured("stored")
	writeJSON(w, http.StatusCreated, lead)
}

// HandleGet is GET /api/leads/{id}.
func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := h.Repo.GetLead(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Lookup failed", Retryable: true})
		return
	}
	if lead == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Lead not found"})
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// HandleList is GET /api/leads with optional status, agent_id, suburb, from,
// to query params. Filters combine with AND; results are newest-first.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filters entity.LeadFilters

	if status := q.Get("status"); status != "" {
		if !entity.LeadStatus(status).Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid status filter"})
			return
		}
		filters.Status = entity.LeadStatus(status)
	}
	filters.AgentID = q.Get("agent_id")
	filters.Suburb = q.Get("suburb")

	if from := q.Get("from"); from != "" {
		t, err := parseDateParam(from, false)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid 'from' date"})
			return
		}
		filters.CreatedFrom = t
	}
	if to := q.Get("to"); to != "" {
		t, err := parseDateParam(to, true)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid 'to' date"})
			return
		}
		filters.CreatedTo = t
	}

	leads, err := h.Repo.ListLeads(r.Context(), filters)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Listing failed", Retryable: true})
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"count": len(leads),
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus is PATCH /api/leads/{id}/status.
func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	status := entity.LeadStatus(req.Status)
	if !entity.CanTransitionStatus("", status) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid status"})
		return
	}

	updated, err := h.Repo.UpdateLeadStatus(r.Context(), id, status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Update failed", Retryable: true})
		return
	}
	if !updated {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Lead not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// parseDateParam accepts RFC3339 or a plain date. A plain "to" date is pushed
// to end of day so the bound stays inclusive.
func parseDateParam(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First address in the chain is the original client.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
