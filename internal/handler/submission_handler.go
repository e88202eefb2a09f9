package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-agreement-api/internal/dto"
	"github.com/noah-isme/student-agreement-api/internal/service"
	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
	"github.com/noah-isme/student-agreement-api/pkg/response"
)

// SubmissionHandler exposes the student intake endpoint.
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit godoc
// @Summary Submit a signed agreement
// @Description Stores a completed agreement form with the student's signature
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	submission, err := h.submissions.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.SubmitResponse{
		SubmissionID: submission.ID,
		Message:      "Agreement submitted. It is now awaiting admin review.",
	})
}
