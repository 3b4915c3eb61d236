package service

import (
	"context"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// CreateBiller registers a biller for BPAY payments.
func (s *Service) CreateBiller(ctx context.Context, name, code string) (*models.Biller, error) {
	b := &models.Biller{Name: name, Code: code}
	if err := s.store.CreateBiller(ctx, b); err != nil {
		return nil, err
	}
	s.log.Infof("Biller %s (%s) created", name, code)
	return b, nil
}

// FindBiller retrieves a biller by its BPAY code.
func (s *Service) FindBiller(ctx context.Context, code string) (*models.Biller, error) {
	return s.store.FindBillerByCode(ctx, code)
}

// ListBillers retrieves all registered billers.
func (s *Service) ListBillers(ctx context.Context) ([]*models.Biller, error) {
	return s.store.ListBillers(ctx)
}

// DeleteBiller removes a biller from the registry.
func (s *Service) DeleteBiller(ctx context.Context, id int64) error {
	return s.store.DeleteBiller(ctx, id)
}

// ImportBillers upserts a batch of directory records into the registry and
// returns how many were applied.
func (s *Service) ImportBillers(ctx context.Context, billers []*models.Biller) (int, error) {
	applied := 0
	for _, b := range billers {
		if err := s.store.UpsertBiller(ctx, b); err != nil {
			return applied, err
		}
		applied++
	}
	s.log.Infof("Imported %d billers from directory", applied)
	return applied, nil
}
