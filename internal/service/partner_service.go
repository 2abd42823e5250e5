package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/parisxmas/partnerhub/internal/codec"
	"github.com/parisxmas/partnerhub/internal/models"
	"github.com/parisxmas/partnerhub/internal/repository"
)

var ErrNotFound = errors.New("not found")

// PartnerService owns the business rules the repository deliberately
// does not: id generation, timestamp stamping, and gate validation.
type PartnerService struct {
	partners *repository.PartnerRepo
	now      func() codec.Timestamp
}

func NewPartnerService(partners *repository.PartnerRepo) *PartnerService {
	return &PartnerService{partners: partners, now: codec.Now}
}

// Create stores a new partner record. The id is generated when the
// caller leaves it empty.
func (s *PartnerService) Create(ctx context.Context, record *models.PartnerRecord) (*models.PartnerRecord, error) {
	if record.PartnerName == "" {
		return nil, errors.New("partner name is required")
	}
	if err := validatePartner(record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CurrentGate == "" {
		record.CurrentGate = models.GatePreContract
	}
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := s.partners.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get fetches a partner, returning ErrNotFound when absent.
func (s *PartnerService) Get(ctx context.Context, id string) (*models.PartnerRecord, error) {
	record, err := s.partners.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("partner %s: %w", id, ErrNotFound)
	}
	return record, nil
}

// List returns every partner record.
func (s *PartnerService) List(ctx context.Context) ([]models.PartnerRecord, error) {
	return s.partners.List(ctx)
}

// Update overwrites an existing partner record, preserving its
// creation time and stamping a fresh UpdatedAt.
func (s *PartnerService) Update(ctx context.Context, id string, record *models.PartnerRecord) (*models.PartnerRecord, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validatePartner(record); err != nil {
		return nil, err
	}
	record.ID = id
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = s.now()
	if record.Extra == nil {
		record.Extra = existing.Extra
	}
	if err := s.partners.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a partner. Absent ids are tolerated.
func (s *PartnerService) Delete(ctx context.Context, id string) error {
	return s.partners.Delete(ctx, id)
}

func validatePartner(record *models.PartnerRecord) error {
	if record.CCV < 0 || record.LRP < 0 {
		return errors.New("ccv and lrp must be non-negative")
	}
	if record.CurrentGate != "" && !record.CurrentGate.Valid() {
		return fmt.Errorf("unknown gate %q", record.CurrentGate)
	}
	for gate := range record.Gates {
		if !gate.Valid() {
			return fmt.Errorf("unknown gate %q in progress map", gate)
		}
	}
	return nil
}
