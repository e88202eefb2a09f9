package models

import "time"

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
)

// AdminData carries the countersigning admin's details.
type AdminData struct {
	AdminName string `json:"adminName"`
	Notes     string `json:"notes"`
}

// Submission is the sole persisted entity: one signed agreement awaiting or
// past admin review. Student fields are immutable once approved; approval
// only appends the admin fields.
type Submission struct {
	ID                    string            `json:"id"`
	Status                SubmissionStatus  `json:"status"`
	FormData              map[string]string `json:"formData"`
	SignatureDataURL      string            `json:"signatureDataUrl"`
	AdminData             *AdminData        `json:"adminData,omitempty"`
	AdminSignatureDataURL *string           `json:"adminSignatureDataUrl,omitempty"`
	SubmittedAt           time.Time         `json:"submittedAt"`
	ApprovedAt            *time.Time        `json:"approvedAt,omitempty"`
}

// SubmissionPatch is a shallow merge applied by Update. Nil fields are left
// untouched.
type SubmissionPatch struct {
	Status                *SubmissionStatus
	AdminData             *AdminData
	AdminSignatureDataURL *string
	ApprovedAt            *time.Time
}

// Field returns a form field value, empty when absent.
func (s *Submission) Field(name string) string {
	if s == nil || s.FormData == nil {
		return ""
	}
	return s.FormData[name]
}
