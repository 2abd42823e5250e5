package models

import "github.com/parisxmas/partnerhub/internal/codec"

// SubmissionStatus is the overall state of a questionnaire submission.
type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "pending"
	StatusInProgress SubmissionStatus = "in-progress"
	StatusComplete   SubmissionStatus = "complete"
	StatusApproved   SubmissionStatus = "approved"
	StatusRejected   SubmissionStatus = "rejected"
)

// SectionStatus is the state of one questionnaire section.
type SectionStatus string

const (
	SectionPending    SectionStatus = "pending"
	SectionInProgress SectionStatus = "in-progress"
	SectionComplete   SectionStatus = "complete"
)

// Section is one ordered section of answers. Answers are kept as raw
// maps so the store never constrains what a questionnaire template
// may ask.
type Section struct {
	ID      string         `json:"id"`
	Title   string         `json:"title,omitempty"`
	Answers map[string]any `json:"answers,omitempty"`
}

// Signature captures who signed a submission and how.
type Signature struct {
	SignedBy  string          `json:"signedBy"`
	Method    string          `json:"method"`
	SignedAt  codec.Timestamp `json:"signedAt"`
	IPAddress string          `json:"ipAddress,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
}

// Submission is one questionnaire submission for a partner. PartnerID
// is a reference only; referential integrity is the caller's concern.
type Submission struct {
	ID              string                   `json:"id"`
	QuestionnaireID string                   `json:"questionnaireId"`
	Version         string                   `json:"version"`
	PartnerID       string                   `json:"partnerId"`
	Sections        []Section                `json:"sections,omitempty"`
	SectionStatuses map[string]SectionStatus `json:"sectionStatuses,omitempty"`
	OverallStatus   SubmissionStatus         `json:"overallStatus"`
	Signature       *Signature               `json:"signature,omitempty"`
	SubmittedBy     string                   `json:"submittedBy,omitempty"`
	SubmittedByRole string                   `json:"submittedByRole,omitempty"`
	IPAddress       string                   `json:"ipAddress,omitempty"`
	CreatedAt       codec.Timestamp          `json:"createdAt"`
	UpdatedAt       codec.Timestamp          `json:"updatedAt"`

	// Extra carries undeclared payload fields through a round trip.
	Extra map[string]any `json:"-"`
}
