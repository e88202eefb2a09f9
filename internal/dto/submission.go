package dto

import (
	"time"

	"github.com/noah-isme/student-agreement-api/internal/models"
)

// SubmitRequest is the student-facing submission payload.
type SubmitRequest struct {
	FormData         map[string]string `json:"formData" validate:"required"`
	SignatureDataURL string            `json:"signatureDataUrl" validate:"required"`
}

// SubmitResponse acknowledges a stored submission.
type SubmitResponse struct {
	SubmissionID string `json:"submissionId"`
	Message      string `json:"message"`
}

// LoginRequest carries the shared admin password.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// ApproveRequest is the admin countersignature payload.
type ApproveRequest struct {
	AdminData             models.AdminData `json:"adminData"`
	AdminSignatureDataURL string           `json:"adminSignatureDataUrl"`
}

// ApproveResponse returns the approved record with a confirmation message.
type ApproveResponse struct {
	Submission *models.Submission `json:"submission"`
	Message    string             `json:"message"`
}

// SubmissionSummary is the lightweight listing projection. It deliberately
// carries no signature payloads.
type SubmissionSummary struct {
	ID          string                  `json:"id"`
	Status      models.SubmissionStatus `json:"status"`
	FullName    string                  `json:"fullName"`
	Email       string                  `json:"email"`
	Course      string                  `json:"course"`
	StudentID   string                  `json:"studentId"`
	SubmittedAt time.Time               `json:"submittedAt"`
	ApprovedAt  *time.Time              `json:"approvedAt"`
}

// SubmissionListResponse wraps the admin listing.
type SubmissionListResponse struct {
	Submissions []SubmissionSummary `json:"submissions"`
}

// SubmissionResponse wraps a full record fetch.
type SubmissionResponse struct {
	Submission *models.Submission `json:"submission"`
}
