// Package repository persists partner records and questionnaire
// submissions in the blob store. Every operation runs under the
// shared retry policy and surfaces failures through the package's
// Error type; absence is reported as a nil record, not an error.
package repository

import (
	"context"

	"github.com/parisxmas/partnerhub/internal/blob"
	"github.com/parisxmas/partnerhub/internal/codec"
	"github.com/parisxmas/partnerhub/internal/models"
	"github.com/parisxmas/partnerhub/internal/retry"
)

const partnersPrefix = "partners/"

func partnerKey(id string) string { return partnersPrefix + id }

// PartnerRepo stores partner records under the partners/ key space.
type PartnerRepo struct {
	store   blob.Store
	retry   retry.Policy
	migrate func(map[string]any) map[string]any
}

// NewPartnerRepo builds a repo over store with the given retry
// policy. migrate, when non-nil, is applied to the undeclared fields
// of every decoded record (legacy field stripping).
func NewPartnerRepo(store blob.Store, policy retry.Policy, migrate func(map[string]any) map[string]any) *PartnerRepo {
	return &PartnerRepo{store: store, retry: policy, migrate: migrate}
}

// Get fetches a partner by id. A missing id yields (nil, nil).
func (r *PartnerRepo) Get(ctx context.Context, id string) (*models.PartnerRecord, error) {
	record, err := retry.DoValue(ctx, r.retry, func(ctx context.Context) (*models.PartnerRecord, error) {
		data, found, err := r.store.Get(ctx, partnerKey(id))
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return r.decode(data)
	})
	if err != nil {
		return nil, wrapErr(CodeGetPartner, "get partner "+id, err)
	}
	return record, nil
}

// Save upserts a partner by id. The record is written as given: the
// store trusts the caller's UpdatedAt rather than stamping its own.
func (r *PartnerRepo) Save(ctx context.Context, record *models.PartnerRecord) error {
	data, err := codec.Encode(record, record.Extra)
	if err != nil {
		return wrapErr(CodeSavePartner, "save partner "+record.ID, err)
	}
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		return r.store.Set(ctx, partnerKey(record.ID), data)
	})
	if err != nil {
		return wrapErr(CodeSavePartner, "save partner "+record.ID, err)
	}
	return nil
}

// List returns every partner record in backend listing order.
func (r *PartnerRepo) List(ctx context.Context) ([]models.PartnerRecord, error) {
	records, err := retry.DoValue(ctx, r.retry, func(ctx context.Context) ([]models.PartnerRecord, error) {
		entries, err := r.store.List(ctx, partnersPrefix)
		if err != nil {
			return nil, err
		}
		out := make([]models.PartnerRecord, 0, len(entries))
		for _, e := range entries {
			record, err := r.decode(e.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, *record)
		}
		return out, nil
	})
	if err != nil {
		return nil, wrapErr(CodeListPartners, "list partners", err)
	}
	return records, nil
}

// Delete removes a partner by id. Deleting an absent id is a no-op.
func (r *PartnerRepo) Delete(ctx context.Context, id string) error {
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		return r.store.Delete(ctx, partnerKey(id))
	})
	if err != nil {
		return wrapErr(CodeDeletePartner, "delete partner "+id, err)
	}
	return nil
}

func (r *PartnerRepo) decode(data []byte) (*models.PartnerRecord, error) {
	var record models.PartnerRecord
	extra, err := codec.Decode(data, &record)
	if err != nil {
		// Retrying cannot repair a malformed payload.
		return nil, retry.Permanent(err)
	}
	if r.migrate != nil {
		extra = r.migrate(extra)
	}
	record.Extra = extra
	return &record, nil
}
