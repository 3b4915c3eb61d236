package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

const scheduleColumns = `id, pay_at, related_user, from_account, COALESCE(to_account, 0),
	COALESCE(biller_name, ''), COALESCE(biller_code, ''), COALESCE(reference_number, ''),
	amount, description, schedule_ref, schedule_type, status, COALESCE(recurring_payment, 0)`

func scanSchedule(row interface{ Scan(...any) error }) (*models.Schedule, error) {
	s := &models.Schedule{}
	err := row.Scan(&s.ID, &s.PayAt, &s.RelatedUser, &s.FromAccount, &s.ToAccount,
		&s.BillerName, &s.BillerCode, &s.ReferenceNumber, &s.Amount, &s.Description,
		&s.ScheduleRef, &s.ScheduleType, &s.Status, &s.RecurringPayment)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSchedule persists a new schedule entry
func (r *Repository) CreateSchedule(ctx context.Context, s *models.Schedule) error {
	query := `
		INSERT INTO schedule_payments (pay_at, related_user, from_account, to_account,
			biller_name, biller_code, reference_number, amount, description,
			schedule_ref, schedule_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var toAccount any
	if s.ToAccount != 0 {
		toAccount = s.ToAccount
	}
	err := r.db.QueryRowContext(ctx, query,
		s.PayAt, s.RelatedUser, s.FromAccount, toAccount,
		s.BillerName, s.BillerCode, s.ReferenceNumber, s.Amount, s.Description,
		s.ScheduleRef, s.ScheduleType, s.Status).
		Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// FindScheduleByID retrieves a schedule by id
func (r *Repository) FindScheduleByID(ctx context.Context, id int64) (*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_payments WHERE id = $1`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	return s, nil
}

// ListSchedulesForUser retrieves a user's schedules, soonest first
func (r *Repository) ListSchedulesForUser(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_payments WHERE related_user = $1 ORDER BY pay_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// DueSchedules retrieves pending schedules whose pay_at has passed
func (r *Repository) DueSchedules(ctx context.Context, now time.Time) ([]*models.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_payments
		WHERE pay_at <= $1 AND status = 'pending'
		ORDER BY pay_at`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// ClaimSchedule atomically moves a schedule from pending to processing.
// Returns false when another scan already holds the claim, which makes
// overlapping executions of the engine safe.
func (r *Repository) ClaimSchedule(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_payments SET status = 'processing' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim schedule %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to claim schedule %d: %w", id, err)
	}
	return n == 1, nil
}

// ReleaseSchedule returns a claimed schedule to pending so it is retried on
// the next scan.
func (r *Repository) ReleaseSchedule(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE schedule_payments SET status = 'pending' WHERE id = $1 AND status = 'processing'`, id)
	if err != nil {
		return fmt.Errorf("failed to release schedule %d: %w", id, err)
	}
	return nil
}

// CompleteSchedule marks a schedule completed. Terminal.
func (r *Repository) CompleteSchedule(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE schedule_payments SET status = 'completed' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to complete schedule %d: %w", id, err)
	}
	return nil
}

// RescheduleSchedule moves a recurring schedule's pay_at forward and returns
// it to pending for the next run.
func (r *Repository) RescheduleSchedule(ctx context.Context, id int64, next time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE schedule_payments SET pay_at = $1, status = 'pending' WHERE id = $2`, next, id)
	if err != nil {
		return fmt.Errorf("failed to reschedule schedule %d: %w", id, err)
	}
	return nil
}

// SetScheduleRecurrence back-references the recurrence row created for a
// *_recur schedule.
func (r *Repository) SetScheduleRecurrence(ctx context.Context, scheduleID, recurrenceID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE schedule_payments SET recurring_payment = $1 WHERE id = $2`, recurrenceID, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to link recurrence: %w", err)
	}
	return nil
}

// CreateRecurrence persists a recurrence rule
func (r *Repository) CreateRecurrence(ctx context.Context, rec *models.Recurrence) error {
	query := `
		INSERT INTO recurring_payments (interval, related_schedule, recur_rule, end_date, recur_count_dec)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var endDate any
	if !rec.EndDate.IsZero() {
		endDate = rec.EndDate
	}
	err := r.db.QueryRowContext(ctx, query,
		rec.Interval, rec.RelatedSchedule, rec.RecurRule, endDate, rec.RecurCountDec).
		Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to create recurrence: %w", err)
	}
	return nil
}

// FindRecurrenceByID retrieves a recurrence by id
func (r *Repository) FindRecurrenceByID(ctx context.Context, id int64) (*models.Recurrence, error) {
	rec := &models.Recurrence{}
	var endDate sql.NullTime
	query := `
		SELECT id, interval, related_schedule, recur_rule, end_date, COALESCE(recur_count_dec, 0)
		FROM recurring_payments
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.Interval, &rec.RelatedSchedule, &rec.RecurRule, &endDate, &rec.RecurCountDec)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recurrence %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recurrence: %w", err)
	}
	if endDate.Valid {
		rec.EndDate = endDate.Time
	}
	return rec, nil
}

// DecrementRecurCount decrements a forCount recurrence and returns the
// post-decrement value.
func (r *Repository) DecrementRecurCount(ctx context.Context, id int64) (int, error) {
	var remaining int
	err := r.db.QueryRowContext(ctx,
		`UPDATE recurring_payments SET recur_count_dec = recur_count_dec - 1 WHERE id = $1 RETURNING recur_count_dec`,
		id).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("recurrence %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement recur count: %w", err)
	}
	return remaining, nil
}
