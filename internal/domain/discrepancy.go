package domain

import (
	"time"

	"github.com/google/uuid"
)

// Discrepancy is one classified unmatched record as persisted for a run.
// The category description is never stored on the type; it is always
// derived from the category id.
type Discrepancy struct {
	ID                  uuid.UUID         `json:"id"`
	RunID               uuid.UUID         `json:"run_id"`
	Source              Source            `json:"source"`
	NHSNumber           string            `json:"nhs_number"`
	DateOfBirth         time.Time         `json:"date_of_birth"`
	PrimaryCareProvider string            `json:"primary_care_provider,omitempty"`
	ReasonForRemoval    string            `json:"reason_for_removal,omitempty"`
	Gender              string            `json:"gender,omitempty"`
	IsHigherRisk        *bool             `json:"is_higher_risk,omitempty"`
	Category            Category          `json:"discrepancy_category_id"`
	Attributes          map[string]string `json:"attributes,omitempty"`
}

// NewDiscrepancy flattens a classified record into its persisted form.
func NewDiscrepancy(runID uuid.UUID, source Source, rec ClassifiedRecord) Discrepancy {
	return Discrepancy{
		ID:                  uuid.New(),
		RunID:               runID,
		Source:              source,
		NHSNumber:           rec.NHSNumber,
		DateOfBirth:         rec.DateOfBirth,
		PrimaryCareProvider: rec.PrimaryCareProvider,
		ReasonForRemoval:    rec.ReasonForRemoval,
		Gender:              rec.Gender,
		IsHigherRisk:        rec.IsHigherRisk,
		Category:            rec.Category,
		Attributes:          rec.Attributes,
	}
}
