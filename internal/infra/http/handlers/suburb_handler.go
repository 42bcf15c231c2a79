package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandtoninsights/api/internal/entity"
	"github.com/sandtoninsights/api/internal/infra/http/middleware"
	"github.com/sandtoninsights/api/internal/infra/refdata"
	"github.com/sandtoninsights/api/internal/usecase"
)

type SuburbHandler struct {
	Store     *refdata.Store
	Recommend *usecase.RecommendAgentsUseCase
}

func NewSuburbHandler(store *refdata.Store, recommend *usecase.RecommendAgentsUseCase) *SuburbHandler {
	return &SuburbHandler{Store: store, Recommend: recommend}
}

type suburbSummary struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Summary       string   `json:"summary"`
	PriceBand     string   `json:"price_band"`
	LifestyleTags []string `json:"lifestyle_tags"`
}

// HandleList is GET /api/suburbs.
func (h *SuburbHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	suburbs := h.Store.AllSuburbs()
	summaries := make([]suburbSummary, 0, len(suburbs))
	for _, s := range suburbs {
		summaries = append(summaries, suburbSummary{
			Slug:          s.Slug,
			Name:          s.Name,
			Summary:       s.Summary,
			PriceBand:     refdata.FormatPriceBand(s.DataPoints.PriceBand),
			LifestyleTags: s.DataPoints.LifestyleTags,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"city":     h.Store.City(),
		"province": h.Store.Province(),
		"suburbs":  summaries,
	})
}

type suburbDetail struct {
	entity.Suburb
	PriceBandDisplay string          `json:"price_band_display"`
	Related          []suburbSummary `json:"related"`
}

// HandleGet is GET /api/suburbs/{slug}.
func (h *SuburbHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	suburb, ok := h.Store.SuburbBySlug(slug)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Suburb not found"})
		return
	}

	related := h.Store.RelatedSuburbs(slug)
	relatedSummaries := make([]suburbSummary, 0, len(related))
	for _, s := range related {
		relatedSummaries = append(relatedSummaries, suburbSummary{
			Slug:          s.Slug,
			Name:          s.Name,
			Summary:       s.Summary,
			PriceBand:     refdata.FormatPriceBand(s.DataPoints.PriceBand),
			LifestyleTags: s.DataPoints.LifestyleTags,
		})
	}

	writeJSON(w, http.StatusOK, suburbDetail{
		Suburb:           suburb,
		PriceBandDisplay: refdata.FormatPriceBand(suburb.DataPoints.PriceBand),
		Related:          relatedSummaries,
	})
}

type agentRecommendation struct {
	entity.Agent
	Badge      string `json:"badge,omitempty"`
	Priority   int    `json:"priority,omitempty"`
	Generalist bool   `json:"generalist"`
}

// HandleAgents is GET /api/suburbs/{slug}/agents: the up-to-3 ranked picks
// the seller page shows. Backfilled generalists are flagged so the UI can
// label them differently from suburb specialists.
func (h *SuburbHandler) HandleAgents(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	middleware.RecordAgentRecommendation()

	agents := h.Recommend.Execute(slug)
	recs := make([]agentRecommendation, 0, len(agents))
	for _, a := range agents {
		rec := agentRecommendation{Agent: a, Generalist: true}
		if profile, ok := a.SuburbProfile(slug); ok {
			rec.Badge = profile.Badge
			rec.Priority = profile.Priority
			rec.Generalist = false
		}
		recs = append(recs, rec)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"suburb": slug,
		"agents": recs,
	})
}
