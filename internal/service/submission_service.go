package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/parisxmas/partnerhub/internal/codec"
	"github.com/parisxmas/partnerhub/internal/models"
	"github.com/parisxmas/partnerhub/internal/qconfig"
	"github.com/parisxmas/partnerhub/internal/repository"
)

// SubmissionService validates submissions against their questionnaire
// template and derives overall status from section statuses.
type SubmissionService struct {
	subs     *repository.SubmissionRepo
	partners *repository.PartnerRepo
	configs  *qconfig.Loader
	now      func() codec.Timestamp
}

func NewSubmissionService(subs *repository.SubmissionRepo, partners *repository.PartnerRepo, configs *qconfig.Loader) *SubmissionService {
	return &SubmissionService{subs: subs, partners: partners, configs: configs, now: codec.Now}
}

// Create stores a new submission. KSUIDs keep the submissions/ key
// space roughly creation-ordered under backend listing.
func (s *SubmissionService) Create(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	if sub.QuestionnaireID == "" {
		return nil, errors.New("questionnaire id is required")
	}
	if sub.PartnerID == "" {
		return nil, errors.New("partner id is required")
	}
	partner, err := s.partners.Get(ctx, sub.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner %s: %w", sub.PartnerID, ErrNotFound)
	}
	if err := s.validateSections(ctx, sub); err != nil {
		return nil, err
	}

	if sub.ID == "" {
		sub.ID = ksuid.New().String()
	}
	now := s.now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.OverallStatus = deriveStatus(sub)
	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get fetches a submission, returning ErrNotFound when absent.
func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.subs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return sub, nil
}

// List returns every submission.
func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	return s.subs.List(ctx)
}

// ListByPartner returns the submissions referencing partnerID.
func (s *SubmissionService) ListByPartner(ctx context.Context, partnerID string) ([]models.Submission, error) {
	return s.subs.ListByPartner(ctx, partnerID)
}

// Update overwrites an existing submission, re-deriving its overall
// status and stamping a fresh UpdatedAt.
func (s *SubmissionService) Update(ctx context.Context, id string, sub *models.Submission) (*models.Submission, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	sub.CreatedAt = existing.CreatedAt
	sub.UpdatedAt = s.now()
	sub.OverallStatus = deriveStatus(sub)
	if sub.Extra == nil {
		sub.Extra = existing.Extra
	}
	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete removes a submission. Absent ids are tolerated.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	return s.subs.Delete(ctx, id)
}

// validateSections checks the submission covers every required
// section of its template. A missing template config is not fatal:
// templates can be registered after submissions start arriving.
func (s *SubmissionService) validateSections(ctx context.Context, sub *models.Submission) error {
	if s.configs == nil {
		return nil
	}
	tpl, err := s.configs.GetTemplate(ctx, "questionnaires/"+sub.QuestionnaireID)
	if err != nil {
		return nil
	}
	present := make(map[string]bool, len(sub.Sections))
	for _, section := range sub.Sections {
		present[section.ID] = true
	}
	for _, id := range qconfig.RequiredSections(tpl) {
		if !present[id] {
			return fmt.Errorf("required section %q missing", id)
		}
	}
	return nil
}

// deriveStatus rolls section statuses up into the overall status.
// Approval and rejection are explicit caller decisions and are never
// overridden here.
func deriveStatus(sub *models.Submission) models.SubmissionStatus {
	if sub.OverallStatus == models.StatusApproved || sub.OverallStatus == models.StatusRejected {
		return sub.OverallStatus
	}
	if len(sub.SectionStatuses) == 0 {
		return models.StatusPending
	}
	complete := 0
	started := 0
	for _, status := range sub.SectionStatuses {
		switch status {
		case models.SectionComplete:
			complete++
			started++
		case models.SectionInProgress:
			started++
		}
	}
	switch {
	case complete == len(sub.SectionStatuses):
		return models.StatusComplete
	case started > 0:
		return models.StatusInProgress
	default:
		return models.StatusPending
	}
}
