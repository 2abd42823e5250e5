package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parisxmas/partnerhub/internal/blob/memory"
	"github.com/parisxmas/partnerhub/internal/codec"
	"github.com/parisxmas/partnerhub/internal/models"
	"github.com/parisxmas/partnerhub/internal/repository"
)

func submission(id, partnerID string) *models.Submission {
	return &models.Submission{
		ID:              id,
		QuestionnaireID: "gate-1-readiness",
		Version:         "1.2.0",
		PartnerID:       partnerID,
		Sections: []models.Section{
			{ID: "company", Answers: map[string]any{"employees": 250}},
			{ID: "technical", Answers: map[string]any{"regions": []any{"eu", "us"}}},
		},
		SectionStatuses: map[string]models.SectionStatus{
			"company":   models.SectionComplete,
			"technical": models.SectionInProgress,
		},
		OverallStatus: models.StatusInProgress,
		Signature: &models.Signature{
			SignedBy: "cto@partner.example",
			Method:   "click-through",
			SignedAt: codec.At(time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)),
		},
		SubmittedBy: "cto@partner.example",
		CreatedAt:   codec.Now(),
		UpdatedAt:   codec.Now(),
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	repo := repository.NewSubmissionRepo(memory.New(), testPolicy())
	ctx := context.Background()

	in := submission("s1", "p1")
	if err := repo.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected submission, got nil")
	}
	if got.QuestionnaireID != "gate-1-readiness" || got.Version != "1.2.0" {
		t.Fatalf("fields did not round trip: %+v", got)
	}
	if len(got.Sections) != 2 || got.Sections[0].ID != "company" {
		t.Fatalf("section order not preserved: %+v", got.Sections)
	}
	if got.Signature == nil || !got.Signature.SignedAt.Equal(in.Signature.SignedAt) {
		t.Fatalf("signature did not round trip: %+v", got.Signature)
	}
	if got.SectionStatuses["technical"] != models.SectionInProgress {
		t.Fatalf("section statuses did not round trip: %+v", got.SectionStatuses)
	}
}

func TestSubmissionGetMissing(t *testing.T) {
	repo := repository.NewSubmissionRepo(memory.New(), testPolicy())

	got, err := repo.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSubmissionListByPartner(t *testing.T) {
	repo := repository.NewSubmissionRepo(memory.New(), testPolicy())
	ctx := context.Background()

	for _, tc := range []struct{ id, partner string }{
		{"s1", "p1"}, {"s2", "p2"}, {"s3", "p1"}, {"s4", "p3"}, {"s5", "p1"},
	} {
		if err := repo.Save(ctx, submission(tc.id, tc.partner)); err != nil {
			t.Fatalf("save %s: %v", tc.id, err)
		}
	}

	subs, err := repo.ListByPartner(ctx, "p1")
	if err != nil {
		t.Fatalf("list by partner: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 submissions for p1, got %d", len(subs))
	}
	seen := map[string]bool{}
	for _, sub := range subs {
		if sub.PartnerID != "p1" {
			t.Fatalf("stray submission %s for partner %s", sub.ID, sub.PartnerID)
		}
		seen[sub.ID] = true
	}
	for _, id := range []string{"s1", "s3", "s5"} {
		if !seen[id] {
			t.Fatalf("submission %s missing from listing", id)
		}
	}

	none, err := repo.ListByPartner(ctx, "nobody")
	if err != nil {
		t.Fatalf("list by unknown partner: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty listing, got %d", len(none))
	}
}

func TestSubmissionDeleteIdempotent(t *testing.T) {
	repo := repository.NewSubmissionRepo(memory.New(), testPolicy())
	ctx := context.Background()

	if err := repo.Delete(ctx, "ghost"); err != nil {
		t.Fatalf("deleting a non-existent id should not fail: %v", err)
	}
}

func TestSubmissionErrorCodesOnExhaustion(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		code repository.ErrorCode
		op   func(r *repository.SubmissionRepo) error
	}{
		{"get", repository.CodeGetSubmission, func(r *repository.SubmissionRepo) error {
			_, err := r.Get(ctx, "x")
			return err
		}},
		{"save", repository.CodeSaveSubmission, func(r *repository.SubmissionRepo) error {
			return r.Save(ctx, submission("x", "p"))
		}},
		{"list", repository.CodeListSubmissions, func(r *repository.SubmissionRepo) error {
			_, err := r.List(ctx)
			return err
		}},
		{"delete", repository.CodeDeleteSubmission, func(r *repository.SubmissionRepo) error {
			return r.Delete(ctx, "x")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &flakyStore{Store: memory.New(), failures: 100}
			repo := repository.NewSubmissionRepo(store, testPolicy())

			err := tc.op(repo)
			var repoErr *repository.Error
			if !errors.As(err, &repoErr) {
				t.Fatalf("expected *repository.Error, got %T: %v", err, err)
			}
			if repoErr.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, repoErr.Code)
			}
		})
	}
}

func TestSubmissionExtraFieldsSurviveSaveCycle(t *testing.T) {
	store := memory.New()
	repo := repository.NewSubmissionRepo(store, testPolicy())
	ctx := context.Background()

	seeded := []byte(`{
		"id": "s9",
		"questionnaireId": "q",
		"version": "1.0.0",
		"partnerId": "p9",
		"overallStatus": "pending",
		"createdAt": "2026-01-01T00:00:00.000Z",
		"updatedAt": "2026-01-01T00:00:00.000Z",
		"reviewerNotes": "added by a newer schema"
	}`)
	if err := store.Set(ctx, "submissions/s9", seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.Get(ctx, "s9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.OverallStatus = models.StatusComplete
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, err := repo.Get(ctx, "s9")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Extra["reviewerNotes"] != "added by a newer schema" {
		t.Fatalf("unknown field dropped across a save cycle: %v", again.Extra)
	}
	if again.OverallStatus != models.StatusComplete {
		t.Fatalf("update lost: %s", again.OverallStatus)
	}
}
