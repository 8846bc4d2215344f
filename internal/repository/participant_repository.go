package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studioplan/lessongrid-api/internal/models"
)

// ParticipantRepository provides persistence for participants.
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository creates a new participant repository.
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantColumns = "id, owner_id, full_name, email, required_duration_minutes, active, created_at, updated_at"

// List returns participants with filtering and pagination.
func (r *ParticipantRepository) List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, int, error) {
	base := "FROM participants WHERE owner_id = $1"
	args := []interface{}{filter.OwnerID}

	if filter.ActiveOnly {
		base += " AND active = TRUE"
	}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND full_name ILIKE $%d", len(args)+1)
		args = append(args, "%"+strings.TrimSpace(filter.Search)+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY full_name ASC LIMIT %d OFFSET %d", participantColumns, base, size, offset)
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list participants: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count participants: %w", err)
	}

	return participants, total, nil
}

// FindByID loads a participant by id.
func (r *ParticipantRepository) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	query := "SELECT " + participantColumns + " FROM participants WHERE id = $1"
	var participant models.Participant
	if err := r.db.GetContext(ctx, &participant, query, id); err != nil {
		return nil, err
	}
	return &participant, nil
}

// Create inserts a new participant.
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	participant.CreatedAt = now
	participant.UpdatedAt = now
	const query = `INSERT INTO participants (id, owner_id, full_name, email, required_duration_minutes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		participant.ID, participant.OwnerID, participant.FullName, participant.Email,
		participant.RequiredMinutes, participant.Active, participant.CreatedAt, participant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

// Update edits name, email and required duration.
func (r *ParticipantRepository) Update(ctx context.Context, participant *models.Participant) error {
	participant.UpdatedAt = time.Now().UTC()
	const query = `UPDATE participants
		SET full_name = $2, email = $3, required_duration_minutes = $4, updated_at = $5
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		participant.ID, participant.FullName, participant.Email, participant.RequiredMinutes, participant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("participant %s not found", participant.ID)
	}
	return nil
}

// Deactivate soft-deletes a participant.
func (r *ParticipantRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE participants SET active = FALSE, updated_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	return err
}
