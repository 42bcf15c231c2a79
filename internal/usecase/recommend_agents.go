package usecase

import (
	"sort"

	"github.com/sandtoninsights/api/internal/entity"
)

// DefaultRecommendationLimit is how many agents the seller pages present.
const DefaultRecommendationLimit = 3

// GeneralistPredicate decides whether an agent qualifies for backfill when a
// suburb has too few specific matches. Kept as a named, injectable rule so
// the heuristic can be tuned without touching the ranking algorithm.
type GeneralistPredicate func(entity.Agent) bool

// GeneralistByTrackRecord qualifies agents with a strong recent-sales record
// or membership in one of the designated multi-area agencies.
func GeneralistByTrackRecord(minRecentSales int, multiAreaAgencies []string) GeneralistPredicate {
	agencies := make(map[string]bool, len(multiAreaAgencies))
	for _, a := range multiAreaAgencies {
		agencies[a] = true
	}
	return func(a entity.Agent) bool {
		return a.Stats.RecentSales >= minRecentSales || agencies[a.Agency]
	}
}

// RecommendAgentsUseCase ranks up to Limit agents for a suburb. It is a pure
// function of the reference dataset: same slug in, same ordered slice out.
type RecommendAgentsUseCase struct {
	Agents     []entity.Agent
	Generalist GeneralistPredicate
	Limit      int
}

func NewRecommendAgentsUseCase(agents []entity.Agent, generalist GeneralistPredicate) *RecommendAgentsUseCase {
	return &RecommendAgentsUseCase{
		Agents:     agents,
		Generalist: generalist,
		Limit:      DefaultRecommendationLimit,
	}
}

// Execute selects agents with a profile for the suburb, ranked by that
// suburb's priority (ascending, stable), then backfills with generalists
// ranked by recent sales (descending, stable) until Limit is reached. An
// unknown suburb simply yields zero specific matches and falls through to
// the generalist path.
func (uc *RecommendAgentsUseCase) Execute(suburbSlug string) []entity.Agent {
	limit := uc.Limit
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	var specific []entity.Agent
	for _, a := range uc.Agents {
		if _, ok := a.SuburbProfile(suburbSlug); ok {
			specific = append(specific, a)
		}
	}
	sort.SliceStable(specific, func(i, j int) bool {
		return specific[i].Suburbs[suburbSlug].Priority < specific[j].Suburbs[suburbSlug].Priority
	})

	if len(specific) >= limit {
		return specific[:limit]
	}

	var fallback []entity.Agent
	for _, a := range uc.Agents {
		if _, ok := a.SuburbProfile(suburbSlug); ok {
			continue
		}
		if uc.Generalist != nil && !uc.Generalist(a) {
			continue
		}
		fallback = append(fallback, a)
	}
	sort.SliceStable(fallback, func(i, j int) bool {
		return fallback[i].Stats.RecentSales > fallback[j].Stats.RecentSales
	})

	result := specific
	for _, a := range fallback {
		if len(result) >= limit {
			break
		}
		result = append(result, a)
	}
	return result
}
