package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandtoninsights/api/internal/entity"
)

// Timestamps are stored as fixed-width UTC strings so that lexicographic
// comparison in SQL matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteLeadRepository is the concrete embedded-database store. One instance
// is constructed at startup and shared across all requests.
type SQLiteLeadRepository struct {
	DB *sql.DB
}

func NewSQLiteLeadRepository(db *sql.DB) *SQLiteLeadRepository {
	return &SQLiteLeadRepository{DB: db}
}

// InitSchema is idempotent and runs on every startup.
func (r *SQLiteLeadRepository) InitSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			buyer_type TEXT NOT NULL,
			budget_range TEXT NOT NULL,
			preferred_suburbs TEXT NOT NULL,
			timeline TEXT NOT NULL,
			pre_approved TEXT NOT NULL,
			consent_given INTEGER NOT NULL,
			consent_timestamp TEXT NOT NULL,
			consent_text_version TEXT NOT NULL,
			consent_purpose TEXT NOT NULL,
			source_url TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			ip_address TEXT,
			created_at TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			assigned_agent_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
		CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
		CREATE INDEX IF NOT EXISTS idx_leads_assigned_agent_id ON leads(assigned_agent_id);
	`)
	return err
}

func (r *SQLiteLeadRepository) CreateLead(ctx context.Context, lead *entity.Lead) error {
	suburbs, err := json.Marshal(lead.PreferredSuburbs)
	if err != nil {
		return fmt.Errorf("failed to encode preferred suburbs: %w", err)
	}

	consentGiven := 0
	if lead.ConsentGiven {
		consentGiven = 1
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO leads (
			id, name, phone, email, buyer_type, budget_range, preferred_suburbs,
			timeline, pre_approved, consent_given, consent_timestamp, consent_text_version,
			consent_purpose, source_url, user_agent, ip_address, created_at, status, assigned_agent_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		lead.ID,
		lead.Name,
		lead.Phone,
		nullString(lead.Email),
		string(lead.BuyerType),
		string(lead.BudgetRange),
		string(suburbs),
		string(lead.Timeline),
		string(lead.PreApproved),
		consentGiven,
		lead.ConsentTimestamp.UTC().Format(sqliteTimeLayout),
		lead.ConsentTextVersion,
		lead.ConsentPurpose,
		lead.SourceURL,
		lead.UserAgent,
		nullString(lead.IPAddress),
		lead.CreatedAt.UTC().Format(sqliteTimeLayout),
		string(lead.Status),
		nullString(lead.AssignedAgentID),
	)
	return err
}

func (r *SQLiteLeadRepository) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

func (r *SQLiteLeadRepository) ListLeads(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var params []any

	if filters.Status != "" {
		query += ` AND status = ?`
		params = append(params, string(filters.Status))
	}
	if filters.AgentID != "" {
		query += ` AND assigned_agent_id = ?`
		params = append(params, filters.AgentID)
	}
	if filters.Suburb != "" {
		query += ` AND preferred_suburbs LIKE ?`
		params = append(params, "%"+filters.Suburb+"%")
	}
	if !filters.CreatedFrom.IsZero() {
		query += ` AND created_at >= ?`
		params = append(params, filters.CreatedFrom.UTC().Format(sqliteTimeLayout))
	}
	if !filters.CreatedTo.IsZero() {
		query += ` AND created_at <= ?`
		params = append(params, filters.CreatedTo.UTC().Format(sqliteTimeLayout))
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateLeadStatus touches the status column only; consent metadata is
// write-once and stays untouched. Returns false when the id does not exist.
func (r *SQLiteLeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE leads SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const leadColumns = `id, name, phone, email, buyer_type, budget_range, preferred_suburbs,
	timeline, pre_approved, consent_given, consent_timestamp, consent_text_version,
	consent_purpose, source_url, user_agent, ip_address, created_at, status, assigned_agent_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead             entity.Lead
		email            sql.NullString
		ipAddress        sql.NullString
		assignedAgentID  sql.NullString
		suburbsJSON      string
		consentGiven     int
		consentTimestamp string
		createdAt        string
	)

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&email,
		&lead.BuyerType,
		&lead.BudgetRange,
		&suburbsJSON,
		&lead.Timeline,
		&lead.PreApproved,
		&consentGiven,
		&consentTimestamp,
		&lead.ConsentTextVersion,
		&lead.ConsentPurpose,
		&lead.SourceURL,
		&lead.UserAgent,
		&ipAddress,
		&createdAt,
		&lead.Status,
		&assignedAgentID,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(suburbsJSON), &lead.PreferredSuburbs); err != nil {
		return nil, fmt.Errorf("failed to decode preferred suburbs for lead %s: %w", lead.ID, err)
	}

	lead.Email = email.String
	lead.IPAddress = ipAddress.String
	lead.AssignedAgentID = assignedAgentID.String
	lead.ConsentGiven = consentGiven != 0

	if lead.ConsentTimestamp, err = time.Parse(sqliteTimeLayout, consentTimestamp); err != nil {
		return nil, fmt.Errorf("bad consent timestamp for lead %s: %w", lead.ID, err)
	}
	if lead.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("bad created timestamp for lead %s: %w", lead.ID, err)
	}

	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
