package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/config"
)

// Service handles business logic
type Service struct {
	store  Store
	log    *logrus.Logger
	config *config.Config
	email  EmailSender

	// now is swapped out by tests that exercise due-date logic.
	now func() time.Time
}

// NewService initializes a new service. email may be nil when the email
// channel is disabled.
func NewService(store Store, log *logrus.Logger, cfg *config.Config, email EmailSender) *Service {
	return &Service{
		store:  store,
		log:    log,
		config: cfg,
		email:  email,
		now:    time.Now,
	}
}
