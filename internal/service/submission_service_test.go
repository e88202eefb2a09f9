package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-agreement-api/internal/dto"
	"github.com/noah-isme/student-agreement-api/internal/models"
	"github.com/noah-isme/student-agreement-api/internal/repository"
	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
)

type stubStore struct {
	submissions []models.Submission
	createErr   error
	listErr     error
	updateErr   error
	updated     *models.SubmissionPatch
	updatedID   string
}

func (s *stubStore) Create(ctx context.Context, formData map[string]string, signatureDataURL string) (*models.Submission, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	submission := models.Submission{
		ID:               "sub-1",
		Status:           models.StatusPending,
		FormData:         formData,
		SignatureDataURL: signatureDataURL,
		SubmittedAt:      time.Now().UTC(),
	}
	s.submissions = append([]models.Submission{submission}, s.submissions...)
	return &submission, nil
}

func (s *stubStore) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	for i := range s.submissions {
		if s.submissions[i].ID == id {
			found := s.submissions[i]
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubStore) List(ctx context.Context) ([]models.Submission, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.submissions, nil
}

func (s *stubStore) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i := range s.submissions {
		if s.submissions[i].ID != id {
			continue
		}
		s.updatedID = id
		s.updated = &patch
		if patch.Status != nil {
			s.submissions[i].Status = *patch.Status
		}
		if patch.AdminData != nil {
			s.submissions[i].AdminData = patch.AdminData
		}
		if patch.AdminSignatureDataURL != nil {
			s.submissions[i].AdminSignatureDataURL = patch.AdminSignatureDataURL
		}
		if patch.ApprovedAt != nil {
			s.submissions[i].ApprovedAt = patch.ApprovedAt
		}
		found := s.submissions[i]
		return &found, nil
	}
	return nil, repository.ErrNotFound
}

func TestSubmissionServiceSubmit(t *testing.T) {
	store := &stubStore{}
	svc := NewSubmissionService(store, nil, nil)

	submission, err := svc.Submit(context.Background(), dto.SubmitRequest{
		FormData:         map[string]string{"fullName": "Jane Doe", "email": "jane@example.com"},
		SignatureDataURL: "data:image/png;base64,abc",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, submission.Status)
	assert.Len(t, store.submissions, 1)
}

func TestSubmissionServiceSubmitMissingSignature(t *testing.T) {
	svc := NewSubmissionService(&stubStore{}, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SubmitRequest{
		FormData: map[string]string{"fullName": "Jane Doe", "email": "jane@example.com"},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestSubmissionServiceSubmitMissingNameOrEmail(t *testing.T) {
	svc := NewSubmissionService(&stubStore{}, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SubmitRequest{
		FormData:         map[string]string{"fullName": "  ", "email": "jane@example.com"},
		SignatureDataURL: "sig",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestSubmissionServiceSubmitStoreFailure(t *testing.T) {
	svc := NewSubmissionService(&stubStore{createErr: errors.New("disk full")}, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SubmitRequest{
		FormData:         map[string]string{"fullName": "Jane Doe", "email": "jane@example.com"},
		SignatureDataURL: "sig",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestSubmissionServiceGetNotFound(t *testing.T) {
	svc := NewSubmissionService(&stubStore{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestSubmissionServiceListSummaries(t *testing.T) {
	approvedAt := time.Now().UTC()
	store := &stubStore{submissions: []models.Submission{
		{
			ID:     "sub-2",
			Status: models.StatusApproved,
			FormData: map[string]string{
				"fullName":  "Jane Doe",
				"email":     "jane@example.com",
				"course":    "Go 101",
				"studentId": "S-42",
			},
			SignatureDataURL: "data:image/png;base64,abc",
			ApprovedAt:       &approvedAt,
		},
		{
			ID:               "sub-1",
			Status:           models.StatusPending,
			FormData:         map[string]string{"fullName": "John Roe", "email": "john@example.com"},
			SignatureDataURL: "data:image/png;base64,def",
		},
	}}
	svc := NewSubmissionService(store, nil, nil)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "sub-2", summaries[0].ID)
	assert.Equal(t, "Jane Doe", summaries[0].FullName)
	assert.Equal(t, "Go 101", summaries[0].Course)
	assert.Equal(t, "S-42", summaries[0].StudentID)
	require.NotNil(t, summaries[0].ApprovedAt)
	assert.Nil(t, summaries[1].ApprovedAt)
}

func TestSubmissionSummaryCarriesNoSignaturePayloads(t *testing.T) {
	summary := dto.SubmissionSummary{ID: "sub-1", FullName: "Jane Doe"}
	raw, err := json.Marshal(summary)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "signatureDataUrl")
	assert.NotContains(t, fields, "adminSignatureDataUrl")
	assert.NotContains(t, fields, "formData")
}
