package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/sandtoninsights/api/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendLeadAlert emails a new-lead notification. The lead is already durably
// stored by the time this runs; a send failure only delays the alert.
func (s *EmailSender) SendLeadAlert(to string, payload queue.LeadCapturedPayload) error {
	data := LeadAlertData{
		LeadID:      payload.LeadID,
		Name:        payload.Name,
		Phone:       payload.Phone,
		Email:       payload.Email,
		Suburbs:     strings.Join(payload.PreferredSuburbs, ", "),
		BudgetRange: payload.BudgetRange,
		Timeline:    payload.Timeline,
		SourceURL:   payload.SourceURL,
		CapturedAt:  payload.CapturedAt.Format("02 Jan 2006 15:04 MST"),
	}

	tmplPath := filepath.Join("templates", "lead_alert.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to read alert template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render alert template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("New seller lead: %s (%s)", data.Name, data.Suburbs))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}
