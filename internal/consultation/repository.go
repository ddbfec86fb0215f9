package consultation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"healthmate/internal/triage"
)

// Record is the archived form of a session that reached a terminal state.
type Record struct {
	SessionID  uuid.UUID
	Stage      triage.Stage
	Profile    map[string]any
	Emergency  *triage.Trigger
	Risk       *triage.RiskScore
	Assessment *triage.DiagnosticAssessment
	History    []triage.Turn
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RedFlags returns the red flags of the assessment, if one was made.
func (r Record) RedFlags() []string {
	if r.Assessment == nil {
		return []string{}
	}
	return r.Assessment.RedFlagsPresent
}

type Repository interface {
	Save(ctx context.Context, r Record) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	if db == nil {
		return NopRepository{}
	}
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Save(ctx context.Context, rec Record) error {
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	historyJSON, err := json.Marshal(rec.History)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	riskJSON, err := nullableJSON(rec.Risk)
	if err != nil {
		return fmt.Errorf("failed to marshal risk: %w", err)
	}
	assessmentJSON, err := nullableJSON(rec.Assessment)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	var urgency, category sql.NullString
	var score sql.NullFloat64
	if rec.Risk != nil {
		urgency = sql.NullString{String: rec.Risk.UrgencyLevel.String(), Valid: true}
		score = sql.NullFloat64{Float64: rec.Risk.OverallScore, Valid: true}
	}
	if rec.Emergency != nil {
		category = sql.NullString{String: rec.Emergency.Category, Valid: true}
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO triage_records (id, stage, urgency, overall_score, emergency_category, profile, risk, assessment, red_flags, history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			stage = $2,
			urgency = $3,
			overall_score = $4,
			emergency_category = $5,
			profile = $6,
			risk = $7,
			assessment = $8,
			red_flags = $9,
			history = $10,
			updated_at = $12
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.SessionID, rec.Stage.String(), urgency, score, category,
		profileJSON, riskJSON, assessmentJSON, pq.Array(rec.RedFlags()), historyJSON,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save triage record: %w", err)
	}
	return nil
}

func nullableJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// NopRepository discards records. It is used when no database is configured.
type NopRepository struct{}

func (NopRepository) Save(context.Context, Record) error { return nil }
