package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-agreement-api/internal/dto"
	"github.com/noah-isme/student-agreement-api/internal/models"
	"github.com/noah-isme/student-agreement-api/internal/repository"
	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
)

type submissionStore interface {
	Create(ctx context.Context, formData map[string]string, signatureDataURL string) (*models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context) ([]models.Submission, error)
	Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error)
}

// SubmissionService handles the student-facing intake and the admin reads.
type SubmissionService struct {
	store     submissionStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(store submissionStore, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{store: store, validator: validate, logger: logger}
}

// Submit validates and stores a new pending submission.
func (s *SubmissionService) Submit(ctx context.Context, req dto.SubmitRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing form data or signature")
	}
	if strings.TrimSpace(req.FormData["fullName"]) == "" || strings.TrimSpace(req.FormData["email"]) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name and email are required")
	}

	submission, err := s.store.Create(ctx, req.FormData, req.SignatureDataURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store submission")
	}

	s.logger.Info("submission received",
		zap.String("submission_id", submission.ID),
		zap.String("student", submission.Field("fullName")))
	return submission, nil
}

// Get returns the full record, signature payloads included.
func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// List returns lightweight summaries in storage order. Summaries never
// carry signature image payloads.
func (s *SubmissionService) List(ctx context.Context) ([]dto.SubmissionSummary, error) {
	submissions, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}

	summaries := make([]dto.SubmissionSummary, 0, len(submissions))
	for i := range submissions {
		summaries = append(summaries, toSummary(&submissions[i]))
	}
	return summaries, nil
}

func toSummary(s *models.Submission) dto.SubmissionSummary {
	return dto.SubmissionSummary{
		ID:          s.ID,
		Status:      s.Status,
		FullName:    s.Field("fullName"),
		Email:       s.Field("email"),
		Course:      s.Field("course"),
		StudentID:   s.Field("studentId"),
		SubmittedAt: s.SubmittedAt,
		ApprovedAt:  s.ApprovedAt,
	}
}
