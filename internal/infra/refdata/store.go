package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandtoninsights/api/internal/entity"
)

// GeneralistConfig tunes the agent-matcher backfill rule. Lives with the
// agent dataset so content editors can adjust it without a deploy.
type GeneralistConfig struct {
	MinRecentSales    int      `json:"min_recent_sales"`
	MultiAreaAgencies []string `json:"multi_area_agencies"`
}

type suburbsFile struct {
	City     string          `json:"city"`
	Province string          `json:"province"`
	Suburbs  []entity.Suburb `json:"suburbs"`
}

type agentsFile struct {
	Agents     []entity.Agent   `json:"agents"`
	Generalist GeneralistConfig `json:"generalist"`
}

// Store holds the static suburb and agent datasets. Loaded once at startup
// and immutable afterwards, so it is safe to share without locking.
type Store struct {
	city       string
	province   string
	suburbs    []entity.Suburb
	bySlug     map[string]int
	agents     []entity.Agent
	byID       map[string]int
	generalist GeneralistConfig
}

// Load reads suburbs.json and agents.json from dir. File order is preserved:
// it is the tie-break order the agent matcher depends on for determinism.
func Load(dir string) (*Store, error) {
	var sf suburbsFile
	if err := readJSON(filepath.Join(dir, "suburbs.json"), &sf); err != nil {
		return nil, err
	}

	var af agentsFile
	if err := readJSON(filepath.Join(dir, "agents.json"), &af); err != nil {
		return nil, err
	}

	s := &Store{
		city:       sf.City,
		province:   sf.Province,
		suburbs:    sf.Suburbs,
		bySlug:     make(map[string]int, len(sf.Suburbs)),
		agents:     af.Agents,
		byID:       make(map[string]int, len(af.Agents)),
		generalist: af.Generalist,
	}

	for i, suburb := range sf.Suburbs {
		if _, dup := s.bySlug[suburb.Slug]; dup {
			return nil, fmt.Errorf("duplicate suburb slug %q", suburb.Slug)
		}
		s.bySlug[suburb.Slug] = i
	}
	for i, agent := range af.Agents {
		if _, dup := s.byID[agent.ID]; dup {
			return nil, fmt.Errorf("duplicate agent id %q", agent.ID)
		}
		s.byID[agent.ID] = i
	}

	return s, nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (s *Store) City() string     { return s.city }
func (s *Store) Province() string { return s.province }

func (s *Store) AllSuburbs() []entity.Suburb {
	return s.suburbs
}

func (s *Store) SuburbBySlug(slug string) (entity.Suburb, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return entity.Suburb{}, false
	}
	return s.suburbs[i], true
}

func (s *Store) HasSuburb(slug string) bool {
	_, ok := s.bySlug[slug]
	return ok
}

// RelatedSuburbs resolves a suburb's related slugs, skipping any that do not
// exist in the dataset.
func (s *Store) RelatedSuburbs(slug string) []entity.Suburb {
	suburb, ok := s.SuburbBySlug(slug)
	if !ok {
		return nil
	}
	var related []entity.Suburb
	for _, rel := range suburb.RelatedSuburbs {
		if r, ok := s.SuburbBySlug(rel); ok {
			related = append(related, r)
		}
	}
	return related
}

func (s *Store) AllAgents() []entity.Agent {
	return s.agents
}

func (s *Store) AgentByID(id string) (entity.Agent, bool) {
	i, ok := s.byID[id]
	if !ok {
		return entity.Agent{}, false
	}
	return s.agents[i], true
}

func (s *Store) Generalist() GeneralistConfig {
	return s.generalist
}
