package repository

import (
	"context"
	"fmt"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// CreateMessage inserts an inbox message
func (r *Repository) CreateMessage(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (sender_name, to_user, description, type, invoice_ref, linked_bill, schedule_ref, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		m.SenderName, m.ToUser, m.Description, m.Kind, m.InvoiceRef, m.LinkedBill, m.ScheduleRef, m.CreatedAt).
		Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessagesForUser retrieves a user's inbox, newest first
func (r *Repository) ListMessagesForUser(ctx context.Context, userID int64) ([]*models.Message, error) {
	query := `
		SELECT id, sender_name, to_user, description, type, COALESCE(invoice_ref, ''),
			COALESCE(linked_bill, ''), COALESCE(schedule_ref, ''), read, created_at
		FROM messages
		WHERE to_user = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SenderName, &m.ToUser, &m.Description, &m.Kind,
			&m.InvoiceRef, &m.LinkedBill, &m.ScheduleRef, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkMessageRead toggles the read flag on a message
func (r *Repository) MarkMessageRead(ctx context.Context, id int64, read bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = $1 WHERE id = $2`, read, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	return nil
}
