package entity

import (
	"context"
	"time"
)

// Consent metadata bound to every lead at creation time. The version string
// pins the exact legal text the visitor agreed to and must never be rewritten
// on stored rows (POPIA auditability).
const (
	ConsentTextVersion = "popia-2026-01"
	ConsentPurpose     = "Request a free property valuation and receive Sandton suburb market updates"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusClosed    LeadStatus = "closed"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusClosed:
		return true
	}
	return false
}

type BuyerType string

const (
	BuyerFirstTime BuyerType = "first-time"
	BuyerUpgrading BuyerType = "upgrading"
	BuyerInvesting BuyerType = "investing"
)

func (b BuyerType) Valid() bool {
	switch b {
	case BuyerFirstTime, BuyerUpgrading, BuyerInvesting:
		return true
	}
	return false
}

type BudgetRange string

const (
	BudgetUnder1_5M BudgetRange = "<1.5m"
	Budget1_5To3M   BudgetRange = "1.5-3m"
	Budget3To6M     BudgetRange = "3-6m"
	Budget6To10M    BudgetRange = "6-10m"
	BudgetOver10M   BudgetRange = "10m+"
)

func (b BudgetRange) Valid() bool {
	switch b {
	case BudgetUnder1_5M, Budget1_5To3M, Budget3To6M, Budget6To10M, BudgetOver10M:
		return true
	}
	return false
}

// Timeline is the selling horizon in months.
type Timeline string

const (
	TimelineNow      Timeline = "0-3"
	TimelineSoon     Timeline = "3-6"
	TimelineThisYear Timeline = "6-12"
	TimelineLater    Timeline = "12+"
)

func (t Timeline) Valid() bool {
	switch t {
	case TimelineNow, TimelineSoon, TimelineThisYear, TimelineLater:
		return true
	}
	return false
}

type PreApproved string

const (
	PreApprovedYes PreApproved = "yes"
	PreApprovedNo  PreApproved = "no"
)

func (p PreApproved) Valid() bool {
	return p == PreApprovedYes || p == PreApprovedNo
}

// Lead is a captured valuation/contact request. Consent fields are write-once:
// the create path stamps them and no update path touches them afterwards.
type Lead struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Phone            string      `json:"phone"`
	Email            string      `json:"email,omitempty"`
	BuyerType        BuyerType   `json:"buyer_type"`
	BudgetRange      BudgetRange `json:"budget_range"`
	PreferredSuburbs []string    `json:"preferred_suburbs"`
	Timeline         Timeline    `json:"timeline"`
	PreApproved      PreApproved `json:"pre_approved"`

	ConsentGiven       bool      `json:"consent_given"`
	ConsentTimestamp   time.Time `json:"consent_timestamp"`
	ConsentTextVersion string    `json:"consent_text_version"`
	ConsentPurpose     string    `json:"consent_purpose"`

	SourceURL string `json:"source_url"`
	UserAgent string `json:"user_agent"`
	IPAddress string `json:"ip_address,omitempty"`

	CreatedAt       time.Time  `json:"created_at"`
	Status          LeadStatus `json:"status"`
	AssignedAgentID string     `json:"assigned_agent_id,omitempty"`
}

// CanTransitionStatus gates status changes. Any valid status can move to any
// other valid status; the sales team overrides freely from their sheet. A
// forward-only state machine would slot in here without touching callers.
func CanTransitionStatus(from, to LeadStatus) bool {
	return to.Valid()
}

// LeadFilters combine with AND semantics. Zero values mean "not filtered".
// Suburb is a substring match against the stored preferred-suburbs list.
type LeadFilters struct {
	Status      LeadStatus
	AgentID     string
	Suburb      string
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// LeadRepository hides the storage engine so the backend can be swapped later
// without touching callers. GetLead returns (nil, nil) for a missing id;
// UpdateLeadStatus reports whether a row actually changed.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *Lead) error
	GetLead(ctx context.Context, id string) (*Lead, error)
	ListLeads(ctx context.Context, filters LeadFilters) ([]*Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status LeadStatus) (bool, error)
}
