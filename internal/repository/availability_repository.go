package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
)

// AvailabilityRepository persists weekly availability blocks per subject.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetWeek loads a subject's declared availability as an engine week.
func (r *AvailabilityRepository) GetWeek(ctx context.Context, ownerID, subjectType, subjectID string) (schedule.WeekSchedule, error) {
	const query = `SELECT id, owner_id, subject_type, subject_id, day_of_week, start_minute, duration_minutes, created_at, updated_at
		FROM availability_blocks
		WHERE owner_id = $1 AND subject_type = $2 AND subject_id = $3
		ORDER BY day_of_week ASC, start_minute ASC`

	var rows []models.AvailabilityBlock
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, subjectType, subjectID); err != nil {
		return schedule.WeekSchedule{}, fmt.Errorf("load availability: %w", err)
	}

	ws := schedule.NewWeekSchedule()
	for _, row := range rows {
		if row.DayOfWeek < 0 || row.DayOfWeek > 6 {
			continue
		}
		ws.Days[row.DayOfWeek].Blocks = append(ws.Days[row.DayOfWeek].Blocks, schedule.TimeBlock{
			Start:    row.StartMinute,
			Duration: row.DurationMins,
		})
	}
	return ws, nil
}

// ReplaceWeek swaps a subject's entire declared week inside one transaction.
func (r *AvailabilityRepository) ReplaceWeek(ctx context.Context, ownerID, subjectType, subjectID string, week schedule.WeekSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteQuery = `DELETE FROM availability_blocks WHERE owner_id = $1 AND subject_type = $2 AND subject_id = $3`
	if _, err = tx.ExecContext(ctx, deleteQuery, ownerID, subjectType, subjectID); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}

	const insertQuery = `INSERT INTO availability_blocks (id, owner_id, subject_type, subject_id, day_of_week, start_minute, duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now().UTC()
	for day, ds := range week.Days {
		for _, block := range ds.Blocks {
			if _, err = tx.ExecContext(ctx, insertQuery,
				uuid.NewString(), ownerID, subjectType, subjectID, day, block.Start, block.Duration, now, now); err != nil {
				return fmt.Errorf("insert availability block: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit availability tx: %w", err)
	}
	return nil
}

// DeleteWeek removes every block declared for a subject.
func (r *AvailabilityRepository) DeleteWeek(ctx context.Context, ownerID, subjectType, subjectID string) error {
	const query = `DELETE FROM availability_blocks WHERE owner_id = $1 AND subject_type = $2 AND subject_id = $3`
	_, err := r.db.ExecContext(ctx, query, ownerID, subjectType, subjectID)
	return err
}
