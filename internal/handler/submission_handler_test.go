package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-agreement-api/internal/models"
	"github.com/noah-isme/student-agreement-api/internal/repository"
	"github.com/noah-isme/student-agreement-api/internal/service"
)

type fakeStore struct {
	submissions []models.Submission
}

func (f *fakeStore) Create(ctx context.Context, formData map[string]string, signatureDataURL string) (*models.Submission, error) {
	submission := models.Submission{
		ID:               "sub-1",
		Status:           models.StatusPending,
		FormData:         formData,
		SignatureDataURL: signatureDataURL,
		SubmittedAt:      time.Now().UTC(),
	}
	f.submissions = append([]models.Submission{submission}, f.submissions...)
	return &submission, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	for i := range f.submissions {
		if f.submissions[i].ID == id {
			found := f.submissions[i]
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context) ([]models.Submission, error) {
	return f.submissions, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	for i := range f.submissions {
		if f.submissions[i].ID != id {
			continue
		}
		if patch.Status != nil {
			f.submissions[i].Status = *patch.Status
		}
		if patch.AdminData != nil {
			f.submissions[i].AdminData = patch.AdminData
		}
		if patch.AdminSignatureDataURL != nil {
			f.submissions[i].AdminSignatureDataURL = patch.AdminSignatureDataURL
		}
		if patch.ApprovedAt != nil {
			f.submissions[i].ApprovedAt = patch.ApprovedAt
		}
		found := f.submissions[i]
		return &found, nil
	}
	return nil, repository.ErrNotFound
}

type testEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func postJSON(t *testing.T, target string, payload interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func TestSubmissionHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{}
	handler := NewSubmissionHandler(service.NewSubmissionService(store, nil, nil))

	rec, c := postJSON(t, "/submit", map[string]interface{}{
		"formData":         map[string]string{"fullName": "Jane Doe", "email": "jane@example.com"},
		"signatureDataUrl": "data:image/png;base64,abc",
	})
	handler.Submit(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "sub-1", envelope.Data["submissionId"])
	require.Len(t, store.submissions, 1)
}

func TestSubmissionHandlerSubmitInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSubmissionHandler(service.NewSubmissionService(&fakeStore{}, nil, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader([]byte("{not json")))

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmissionHandlerSubmitMissingSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{}
	handler := NewSubmissionHandler(service.NewSubmissionService(store, nil, nil))

	rec, c := postJSON(t, "/submit", map[string]interface{}{
		"formData": map[string]string{"fullName": "Jane Doe", "email": "jane@example.com"},
	})
	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.submissions)
}
