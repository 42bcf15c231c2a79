package refdata

import (
	"testing"

	"github.com/sandtoninsights/api/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests run against the shipped datasets so a bad content edit fails CI.
func loadStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load("../../../data")
	require.NoError(t, err)
	return store
}

func TestLoadDatasets(t *testing.T) {
	store := loadStore(t)

	assert.Equal(t, "Sandton", store.City())
	assert.Equal(t, "Gauteng", store.Province())
	assert.NotEmpty(t, store.AllSuburbs())
	assert.NotEmpty(t, store.AllAgents())
}

func TestSuburbLookup(t *testing.T) {
	store := loadStore(t)

	suburb, ok := store.SuburbBySlug("hurlingham")
	require.True(t, ok)
	assert.Equal(t, "Hurlingham", suburb.Name)
	assert.Equal(t, "ZAR", suburb.DataPoints.PriceBand.Currency)

	assert.True(t, store.HasSuburb("bryanston"))
	assert.False(t, store.HasSuburb("atlantis"))

	_, ok = store.SuburbBySlug("atlantis")
	assert.False(t, ok)
}

func TestRelatedSuburbsResolve(t *testing.T) {
	store := loadStore(t)

	related := store.RelatedSuburbs("hurlingham")
	require.NotEmpty(t, related)
	for _, r := range related {
		assert.True(t, store.HasSuburb(r.Slug), "related suburb %s must exist", r.Slug)
	}

	assert.Nil(t, store.RelatedSuburbs("atlantis"))
}

func TestAgentLookupAndProfiles(t *testing.T) {
	store := loadStore(t)

	agent, ok := store.AgentByID("ag_01")
	require.True(t, ok)
	assert.Equal(t, "Sarah Jenkins", agent.Name)

	profile, ok := agent.SuburbProfile("hurlingham")
	require.True(t, ok)
	assert.Equal(t, 1, profile.Priority)

	_, ok = store.AgentByID("ag_999")
	assert.False(t, ok)

	// Every suburb an agent claims must exist in the suburb dataset.
	for _, a := range store.AllAgents() {
		for slug := range a.Suburbs {
			assert.True(t, store.HasSuburb(slug), "agent %s references unknown suburb %s", a.ID, slug)
		}
	}
}

func TestGeneralistConfigLoaded(t *testing.T) {
	store := loadStore(t)

	cfg := store.Generalist()
	assert.Greater(t, cfg.MinRecentSales, 0)
	assert.NotEmpty(t, cfg.MultiAreaAgencies)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "R5.2M", FormatPrice(5_200_000))
	assert.Equal(t, "R950K", FormatPrice(950_000))
	assert.Equal(t, "R1.0M", FormatPrice(1_000_000))

	band := entity.PriceBand{Min: 3_500_000, Max: 18_000_000, Currency: "ZAR"}
	assert.Equal(t, "R3.5M - R18.0M", FormatPriceBand(band))
}
