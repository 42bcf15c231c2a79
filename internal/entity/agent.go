package entity

// SuburbProfile is an agent's standing in one suburb. Priority ranks the
// agent within that suburb only (lower = more relevant); the same agent can
// be the top pick in one suburb and a fallback in another.
type SuburbProfile struct {
	Priority int    `json:"priority"`
	Badge    string `json:"badge,omitempty"`
}

type AgentStats struct {
	YearsExperience int    `json:"years_experience"`
	RecentSales     int    `json:"recent_sales"`
	AvgPrice        string `json:"avg_price"`
	EstDaysOnMarket int    `json:"est_days_on_market,omitempty"`
}

type AgentContacts struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

type AgentSocial struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Agent struct {
	ID             string                   `json:"id"`
	Slug           string                   `json:"slug"`
	Name           string                   `json:"name"`
	Agency         string                   `json:"agency"`
	Rating         float64                  `json:"rating"`
	Tier           string                   `json:"tier,omitempty"`
	WhyRecommended []string                 `json:"why_recommended,omitempty"`
	Stats          AgentStats               `json:"stats"`
	Contacts       AgentContacts            `json:"contacts"`
	Social         *AgentSocial             `json:"social,omitempty"`
	Suburbs        map[string]SuburbProfile `json:"suburbs"`
}

// SuburbProfile returns the agent's profile for one suburb, if any.
func (a Agent) SuburbProfile(slug string) (SuburbProfile, bool) {
	p, ok := a.Suburbs[slug]
	return p, ok
}
