package usecase

// LeadFormData mirrors the valuation form exactly as the visitor filled it in.
type LeadFormData struct {
	Name             string   `json:"name"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email,omitempty"`
	BuyerType        string   `json:"buyer_type"`
	BudgetRange      string   `json:"budget_range"`
	PreferredSuburbs []string `json:"preferred_suburbs"`
	Timeline         string   `json:"timeline"`
	PreApproved      string   `json:"pre_approved"`
	ConsentGiven     bool     `json:"consent_given"`
}

// LeadCreateInput is the full payload the presentation layer hands to the
// core: the form plus request-derived provenance.
type LeadCreateInput struct {
	FormData  LeadFormData `json:"form_data"`
	SourceURL string       `json:"source_url"`
	UserAgent string       `json:"user_agent"`
	IPAddress string       `json:"ip_address,omitempty"`
}
