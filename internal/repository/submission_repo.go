package repository

import (
	"context"

	"github.com/parisxmas/partnerhub/internal/blob"
	"github.com/parisxmas/partnerhub/internal/codec"
	"github.com/parisxmas/partnerhub/internal/models"
	"github.com/parisxmas/partnerhub/internal/retry"
)

const submissionsPrefix = "submissions/"

func submissionKey(id string) string { return submissionsPrefix + id }

// SubmissionRepo stores questionnaire submissions under the
// submissions/ key space.
type SubmissionRepo struct {
	store blob.Store
	retry retry.Policy
}

func NewSubmissionRepo(store blob.Store, policy retry.Policy) *SubmissionRepo {
	return &SubmissionRepo{store: store, retry: policy}
}

// Get fetches a submission by id. A missing id yields (nil, nil).
func (r *SubmissionRepo) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := retry.DoValue(ctx, r.retry, func(ctx context.Context) (*models.Submission, error) {
		data, found, err := r.store.Get(ctx, submissionKey(id))
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return decodeSubmission(data)
	})
	if err != nil {
		return nil, wrapErr(CodeGetSubmission, "get submission "+id, err)
	}
	return sub, nil
}

// Save upserts a submission by id, overwriting the full record.
func (r *SubmissionRepo) Save(ctx context.Context, sub *models.Submission) error {
	data, err := codec.Encode(sub, sub.Extra)
	if err != nil {
		return wrapErr(CodeSaveSubmission, "save submission "+sub.ID, err)
	}
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		return r.store.Set(ctx, submissionKey(sub.ID), data)
	})
	if err != nil {
		return wrapErr(CodeSaveSubmission, "save submission "+sub.ID, err)
	}
	return nil
}

// List returns every submission in backend listing order.
func (r *SubmissionRepo) List(ctx context.Context) ([]models.Submission, error) {
	subs, err := retry.DoValue(ctx, r.retry, func(ctx context.Context) ([]models.Submission, error) {
		entries, err := r.store.List(ctx, submissionsPrefix)
		if err != nil {
			return nil, err
		}
		out := make([]models.Submission, 0, len(entries))
		for _, e := range entries {
			sub, err := decodeSubmission(e.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, *sub)
		}
		return out, nil
	})
	if err != nil {
		return nil, wrapErr(CodeListSubmissions, "list submissions", err)
	}
	return subs, nil
}

// ListByPartner returns the submissions referencing partnerID. No
// index is kept: this scans the full listing, which is fine at the
// record volumes this store targets.
func (r *SubmissionRepo) ListByPartner(ctx context.Context, partnerID string) ([]models.Submission, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Submission, 0)
	for _, sub := range all {
		if sub.PartnerID == partnerID {
			out = append(out, sub)
		}
	}
	return out, nil
}

// Delete removes a submission by id. Deleting an absent id is a no-op.
func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		return r.store.Delete(ctx, submissionKey(id))
	})
	if err != nil {
		return wrapErr(CodeDeleteSubmission, "delete submission "+id, err)
	}
	return nil
}

func decodeSubmission(data []byte) (*models.Submission, error) {
	var sub models.Submission
	extra, err := codec.Decode(data, &sub)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	sub.Extra = extra
	return &sub, nil
}
