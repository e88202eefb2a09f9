package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/student-agreement-api/internal/models"
)

// ErrNotFound is returned by store lookups and updates for unknown ids.
var ErrNotFound = errors.New("submission not found")

// SubmissionStore is the persistence contract for agreement submissions.
// List returns records in storage order, newest first.
type SubmissionStore interface {
	Create(ctx context.Context, formData map[string]string, signatureDataURL string) (*models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context) ([]models.Submission, error)
	Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error)
}

func applyPatch(s *models.Submission, patch models.SubmissionPatch) {
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.AdminData != nil {
		s.AdminData = patch.AdminData
	}
	if patch.AdminSignatureDataURL != nil {
		s.AdminSignatureDataURL = patch.AdminSignatureDataURL
	}
	if patch.ApprovedAt != nil {
		s.ApprovedAt = patch.ApprovedAt
	}
}
