package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sandtoninsights/api/internal/entity"
)

// PostgresLeadRepository implements the same contract as the SQLite store
// against an external Postgres (e.g. Supabase). Selected with
// DB_DRIVER=postgres; the rest of the app never knows the difference.
type PostgresLeadRepository struct {
	DB *sql.DB
}

func NewPostgresLeadRepository(db *sql.DB) *PostgresLeadRepository {
	return &PostgresLeadRepository{DB: db}
}

func (r *PostgresLeadRepository) InitSchema(ctx context.Context) error {
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
			consent_given BOOLEAN NOT NULL,
			consent_timestamp TIMESTAMPTZ NOT NULL,
			consent_text_version TEXT NOT NULL,
			consent_purpose TEXT NOT NULL,
			source_url TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			ip_address TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			assigned_agent_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
		CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
		CREATE INDEX IF NOT EXISTS idx_leads_assigned_agent_id ON leads(assigned_agent_id);
	`)
	return err
}

func (r *PostgresLeadRepository) CreateLead(ctx context.Context, lead *entity.Lead) error {
	suburbs, err := json.Marshal(lead.PreferredSuburbs)
	if err != nil {
		return fmt.Errorf("failed to encode preferred suburbs: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO leads (
			id, name, phone, email, buyer_type, budget_range, preferred_suburbs,
			timeline, pre_approved, consent_given, consent_timestamp, consent_text_version,
			consent_purpose, source_url, user_agent, ip_address, created_at, status, assigned_agent_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
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
		lead.ConsentGiven,
		lead.ConsentTimestamp,
		lead.ConsentTextVersion,
		lead.ConsentPurpose,
		lead.SourceURL,
		lead.UserAgent,
		nullString(lead.IPAddress),
		lead.CreatedAt,
		string(lead.Status),
		nullString(lead.AssignedAgentID),
	)
	return err
}

func (r *PostgresLeadRepository) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanPostgresLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

func (r *PostgresLeadRepository) ListLeads(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var params []any

	next := func() string { return fmt.Sprintf("$%d", len(params)) }

	if filters.Status != "" {
		params = append(params, string(filters.Status))
		query += ` AND status = ` + next()
	}
	if filters.AgentID != "" {
		params = append(params, filters.AgentID)
		query += ` AND assigned_agent_id = ` + next()
	}
	if filters.Suburb != "" {
		params = append(params, "%"+filters.Suburb+"%")
		query += ` AND preferred_suburbs LIKE ` + next()
	}
	if !filters.CreatedFrom.IsZero() {
		params = append(params, filters.CreatedFrom)
		query += ` AND created_at >= ` + next()
	}
	if !filters.CreatedTo.IsZero() {
		params = append(params, filters.CreatedTo)
		query += ` AND created_at <= ` + next()
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanPostgresLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *PostgresLeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanPostgresLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead            entity.Lead
		email           sql.NullString
		ipAddress       sql.NullString
		assignedAgentID sql.NullString
		suburbsJSON     string
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
		&lead.ConsentGiven,
		&lead.ConsentTimestamp,
		&lead.ConsentTextVersion,
		&lead.ConsentPurpose,
		&lead.SourceURL,
		&lead.UserAgent,
		&ipAddress,
		&lead.CreatedAt,
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

	return &lead, nil
}
