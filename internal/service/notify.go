package service

import (
	"context"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// CreateMessage posts a one-way inbox message describing the outcome of an
// action. Fire-and-forget: failures are logged and never abort the workflow
// that triggered the notification.
func (s *Service) CreateMessage(ctx context.Context, senderName string, toUser int64, description string, kind models.MessageKind, invoiceRef, linkedBill, scheduleRef string) {
	m := &models.Message{
		SenderName:  senderName,
		ToUser:      toUser,
		Description: description,
		Kind:        kind,
		InvoiceRef:  invoiceRef,
		LinkedBill:  linkedBill,
		ScheduleRef: scheduleRef,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		s.log.Errorf("Failed to create %s message for user %d: %v", kind, toUser, err)
		return
	}

	if s.email == nil {
		return
	}
	user, err := s.store.FindUserByID(ctx, toUser)
	if err != nil {
		s.log.Errorf("Failed to load user %d for email notification: %v", toUser, err)
		return
	}
	if err := s.email.SendScheduleOutcome(user.Email, user.Username, kind, description); err != nil {
		s.log.Errorf("Failed to send %s email to %s: %v", kind, user.Email, err)
	}
}

// ListMessages retrieves a user's inbox, newest first.
func (s *Service) ListMessages(ctx context.Context, userID int64) ([]*models.Message, error) {
	return s.store.ListMessagesForUser(ctx, userID)
}

// MarkMessageRead toggles the read flag on an inbox message.
func (s *Service) MarkMessageRead(ctx context.Context, id int64, read bool) error {
	return s.store.MarkMessageRead(ctx, id, read)
}
