package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-agreement-api/internal/dto"
	"github.com/noah-isme/student-agreement-api/internal/service"
	appErrors "github.com/noah-isme/student-agreement-api/pkg/errors"
	"github.com/noah-isme/student-agreement-api/pkg/response"
)

// AdminHandler wires the admin endpoints: login, logout, submission review
// and approval.
type AdminHandler struct {
	auth        *service.AuthService
	submissions *service.SubmissionService
	approvals   *service.ApprovalService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(auth *service.AuthService, submissions *service.SubmissionService, approvals *service.ApprovalService) *AdminHandler {
	return &AdminHandler{auth: auth, submissions: submissions, approvals: approvals}
}

// Login godoc
// @Summary Admin login
// @Description Validates the shared admin password and issues a session cookie
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	cookie, err := h.auth.Login(req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	setSessionCookie(c, cookie)
	response.JSON(c, http.StatusOK, gin.H{"message": "logged in"})
}

// Logout godoc
// @Summary Admin logout
// @Description Clears the admin session cookie
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	setSessionCookie(c, h.auth.RevokeSession())
	response.JSON(c, http.StatusOK, gin.H{"message": "logged out"})
}

// List godoc
// @Summary List submissions
// @Description Returns submission summaries, newest first, without signature payloads
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/submissions [get]
func (h *AdminHandler) List(c *gin.Context) {
	summaries, err := h.submissions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SubmissionListResponse{Submissions: summaries})
}

// Get godoc
// @Summary Get a submission
// @Description Returns the full record including signature payloads
// @Tags Admin
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/submissions/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	submission, err := h.submissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SubmissionResponse{Submission: submission})
}

// Approve godoc
// @Summary Approve a submission
// @Description Countersigns the agreement, renders the PDF, emails it and records it in the ledger
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.ApproveRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/submissions/{id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}

	submission, _, err := h.approvals.Approve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.ApproveResponse{
		Submission: submission,
		Message:    "Agreement approved and emailed to the student.",
	})
}

func setSessionCookie(c *gin.Context, cookie *service.SessionCookie) {
	c.SetSameSite(cookie.SameSite)
	c.SetCookie(cookie.Name, cookie.Value, cookie.MaxAge, cookie.Path, "", cookie.Secure, cookie.HTTPOnly)
}
