package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/studioplan/lessongrid-api/internal/models"
)

// AssignmentRepository provides persistence for committed lesson placements.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = "id, owner_id, participant_id, day_of_week, start_minute, duration_minutes, source, created_at, updated_at"

// ListByOwner returns all placements for an owner, day-major then time-ascending.
func (r *AssignmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM lesson_assignments WHERE owner_id = $1 ORDER BY day_of_week ASC, start_minute ASC"
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, ownerID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindByID loads one placement.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM lesson_assignments WHERE id = $1"
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts one placement.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	prepareAssignment(assignment)
	const query = `INSERT INTO lesson_assignments (id, owner_id, participant_id, day_of_week, start_minute, duration_minutes, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		assignment.ID, assignment.OwnerID, assignment.ParticipantID, assignment.DayOfWeek,
		assignment.StartMinute, assignment.DurationMins, assignment.Source, assignment.CreatedAt, assignment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts a batch of placements inside the caller's transaction.
func (r *AssignmentRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	const query = `INSERT INTO lesson_assignments (id, owner_id, participant_id, day_of_week, start_minute, duration_minutes, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range assignments {
		prepareAssignment(&assignments[i])
		a := assignments[i]
		if _, err := tx.ExecContext(ctx, query,
			a.ID, a.OwnerID, a.ParticipantID, a.DayOfWeek, a.StartMinute, a.DurationMins, a.Source, a.CreatedAt, a.UpdatedAt); err != nil {
			return fmt.Errorf("bulk create assignment: %w", err)
		}
	}
	return nil
}

// UpdatePlacement moves one placement to a new day and start minute.
func (r *AssignmentRepository) UpdatePlacement(ctx context.Context, id string, dayOfWeek, startMinute int) error {
	const query = `UPDATE lesson_assignments SET day_of_week = $2, start_minute = $3, source = $4, updated_at = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, dayOfWeek, startMinute, models.AssignmentSourceManual, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update placement: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("assignment %s not found", id)
	}
	return nil
}

// Delete removes one placement.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM lesson_assignments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteByIDs removes a set of placements, used when availability edits
// invalidate existing lessons.
func (r *AssignmentRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `DELETE FROM lesson_assignments WHERE id = ANY($1)`
	_, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	return err
}

// DeleteByParticipant removes every placement for one participant.
func (r *AssignmentRepository) DeleteByParticipant(ctx context.Context, participantID string) error {
	const query = `DELETE FROM lesson_assignments WHERE participant_id = $1`
	_, err := r.db.ExecContext(ctx, query, participantID)
	return err
}

func prepareAssignment(assignment *models.Assignment) {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	if assignment.Source == "" {
		assignment.Source = models.AssignmentSourceSolver
	}
}
