package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/sandtoninsights/api/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

// ValidateLeadCreateInput checks field shape and the consent contract before
// anything touches storage. knownSuburb may be nil, in which case suburb slugs
// are accepted unchecked.
func ValidateLeadCreateInput(input LeadCreateInput, knownSuburb func(string) bool) []ValidationError {
	var errors []ValidationError
	form := input.FormData

	if strings.TrimSpace(form.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(form.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(form.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(form.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if form.Email != "" {
		if _, err := mail.ParseAddress(form.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if !entity.BuyerType(form.BuyerType).Valid() {
		errors = append(errors, ValidationError{"buyer_type", "must be first-time, upgrading or investing"})
	}

	if !entity.BudgetRange(form.BudgetRange).Valid() {
		errors = append(errors, ValidationError{"budget_range", "must be one of <1.5m, 1.5-3m, 3-6m, 6-10m, 10m+"})
	}

	if !entity.Timeline(form.Timeline).Valid() {
		errors = append(errors, ValidationError{"timeline", "must be one of 0-3, 3-6, 6-12, 12+"})
	}

	if !entity.PreApproved(form.PreApproved).Valid() {
		errors = append(errors, ValidationError{"pre_approved", "must be yes or no"})
	}

	if len(form.PreferredSuburbs) == 0 {
		errors = append(errors, ValidationError{"preferred_suburbs", "at least one suburb is required"})
	} else {
		for _, slug := range form.PreferredSuburbs {
			if strings.TrimSpace(slug) == "" {
				errors = append(errors, ValidationError{"preferred_suburbs", "suburb slugs must be non-empty"})
				break
			}
			if knownSuburb != nil && !knownSuburb(slug) {
				errors = append(errors, ValidationError{"preferred_suburbs", fmt.Sprintf("unknown suburb %q", slug)})
			}
		}
	}

	// Fail closed: a lead without consent must never reach the repository.
	if !form.ConsentGiven {
		errors = append(errors, ValidationError{"consent_given", "consent is required to store your details"})
	}

	if strings.TrimSpace(input.SourceURL) == "" {
		errors = append(errors, ValidationError{"source_url", "is required"})
	}
	if strings.TrimSpace(input.UserAgent) == "" {
		errors = append(errors, ValidationError{"user_agent", "is required"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 9 && len(cleaned) <= 15
}
