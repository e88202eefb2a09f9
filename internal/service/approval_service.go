package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-agreement-api/internal/dto"
	"github.com/noah-isme/student-agreement-api/internal/models"
	"github.com/noah-isme/student-agreement-api/internal/repository"
	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
	"github.com/noah-isme/student-agreement-api/pkg/mail"
)

type agreementRenderer interface {
	Render(form map[string]string, signatureDataURL string, admin *models.AdminData, adminSignatureDataURL string) ([]byte, error)
}

type notifier interface {
	Send(ctx context.Context, n mail.Notification) error
}

type ledgerAppender interface {
	Append(ctx context.Context, form map[string]string) error
}

type agreementArchive interface {
	Save(filename string, data []byte) (string, error)
}

// SideEffectOutcome records which best-effort side channels succeeded
// during an approval. It is diagnostic only and never alters the HTTP
// response.
type SideEffectOutcome struct {
	EmailSent      bool
	EmailErr       error
	LedgerAppended bool
	LedgerErr      error
	ArchivedAs     string
	ArchiveErr     error
}

// ApprovalConfig parameterises the orchestration.
type ApprovalConfig struct {
	AdminEmail    string
	NotifyTimeout time.Duration
	LedgerTimeout time.Duration
}

// ApprovalService performs the single pending→approved transition and its
// side effects: render the countersigned document (fatal on failure), then
// notify and append to the ledger (both best effort), then persist the
// approval.
type ApprovalService struct {
	store    submissionStore
	renderer agreementRenderer
	notifier notifier
	ledger   ledgerAppender
	archive  agreementArchive
	metrics  *MetricsService
	logger   *zap.Logger
	config   ApprovalConfig
}

// NewApprovalService constructs an ApprovalService.
func NewApprovalService(store submissionStore, renderer agreementRenderer, notifier notifier, ledger ledgerAppender, archive agreementArchive, metrics *MetricsService, logger *zap.Logger, config ApprovalConfig) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.NotifyTimeout <= 0 {
		config.NotifyTimeout = 15 * time.Second
	}
	if config.LedgerTimeout <= 0 {
		config.LedgerTimeout = 10 * time.Second
	}
	return &ApprovalService{
		store:    store,
		renderer: renderer,
		notifier: notifier,
		ledger:   ledger,
		archive:  archive,
		metrics:  metrics,
		logger:   logger,
		config:   config,
	}
}

// Approve transitions the submission to approved. Rendering failure aborts
// with no state change; notifier and ledger failures are logged and
// recorded but never block the transition.
func (s *ApprovalService) Approve(ctx context.Context, id string, req dto.ApproveRequest) (*models.Submission, *SideEffectOutcome, error) {
	submission, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}

	if submission.Status == models.StatusApproved {
		return nil, nil, appErrors.Clone(appErrors.ErrAlreadyApproved, "already approved")
	}

	if strings.TrimSpace(req.AdminData.AdminName) == "" || req.AdminSignatureDataURL == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "admin name and signature are required")
	}

	document, err := s.renderer.Render(submission.FormData, submission.SignatureDataURL, &req.AdminData, req.AdminSignatureDataURL)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agreement document")
	}

	outcome := &SideEffectOutcome{}
	s.archiveDocument(submission.ID, document, outcome)
	s.notify(ctx, submission, req, document, outcome)
	s.appendLedger(ctx, submission, outcome)

	status := models.StatusApproved
	approvedAt := time.Now().UTC()
	adminData := req.AdminData
	adminSignature := req.AdminSignatureDataURL

	updated, err := s.store.Update(ctx, id, models.SubmissionPatch{
		Status:                &status,
		AdminData:             &adminData,
		AdminSignatureDataURL: &adminSignature,
		ApprovedAt:            &approvedAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist approval")
	}

	s.logger.Info("submission approved",
		zap.String("submission_id", updated.ID),
		zap.String("admin", req.AdminData.AdminName),
		zap.Bool("email_sent", outcome.EmailSent),
		zap.Bool("ledger_appended", outcome.LedgerAppended))
	return updated, outcome, nil
}

func (s *ApprovalService) archiveDocument(id string, document []byte, outcome *SideEffectOutcome) {
	if s.archive == nil {
		return
	}
	filename := fmt.Sprintf("agreement-%s.pdf", id)
	stored, err := s.archive.Save(filename, document)
	if err != nil {
		outcome.ArchiveErr = err
		s.logger.Warn("agreement archive failed", zap.String("submission_id", id), zap.Error(err))
		return
	}
	outcome.ArchivedAs = stored
}

func (s *ApprovalService) notify(ctx context.Context, submission *models.Submission, req dto.ApproveRequest, document []byte, outcome *SideEffectOutcome) {
	notifyCtx, cancel := context.WithTimeout(ctx, s.config.NotifyTimeout)
	defer cancel()

	err := s.notifier.Send(notifyCtx, mail.Notification{
		StudentEmail: submission.Field("email"),
		StudentName:  submission.Field("fullName"),
		AdminEmail:   s.config.AdminEmail,
		AdminName:    req.AdminData.AdminName,
		Notes:        req.AdminData.Notes,
		Course:       submission.Field("course"),
		PDF:          document,
	})
	if err != nil {
		outcome.EmailErr = err
		s.recordSideEffect("email", false)
		s.logger.Warn("agreement email failed", zap.String("submission_id", submission.ID), zap.Error(err))
		return
	}
	outcome.EmailSent = true
	s.recordSideEffect("email", true)
}

func (s *ApprovalService) appendLedger(ctx context.Context, submission *models.Submission, outcome *SideEffectOutcome) {
	ledgerCtx, cancel := context.WithTimeout(ctx, s.config.LedgerTimeout)
	defer cancel()

	if err := s.ledger.Append(ledgerCtx, submission.FormData); err != nil {
		outcome.LedgerErr = err
		s.recordSideEffect("ledger", false)
		s.logger.Warn("ledger append failed", zap.String("submission_id", submission.ID), zap.Error(err))
		return
	}
	outcome.LedgerAppended = true
	s.recordSideEffect("ledger", true)
}

func (s *ApprovalService) recordSideEffect(channel string, success bool) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	s.metrics.RecordApprovalSideEffect(channel, outcome)
}
