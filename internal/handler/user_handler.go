package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	"github.com/Ipeter02/ccapsystemsynod/internal/service"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/export"
	"github.com/Ipeter02/ccapsystemsynod/pkg/response"
)

const directoryTitle = "CCAP Synod Member Directory"

type directoryService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Approve(ctx context.Context, id string, req models.ApproveRequest) error
	Reject(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
}

// UserHandler manages account endpoints.
type UserHandler struct {
	service directoryService
}

// NewUserHandler constructs a new handler.
func NewUserHandler(svc directoryService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List accounts
// @Description Returns every account in every state. Passwords are omitted.
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users)
}

// Approve godoc
// @Summary Approve account
// @Description Activates a pending or rejected account with a role and district
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body models.ApproveRequest true "Role assignment"
// @Success 200 {object} response.Ack
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id}/approve [put]
func (h *UserHandler) Approve(c *gin.Context) {
	var req models.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approve payload"))
		return
	}
	if err := h.service.Approve(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Reject godoc
// @Summary Reject account
// @Description Marks a pending account rejected and starts the grace window
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Ack
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id}/reject [put]
func (h *UserHandler) Reject(c *gin.Context) {
	if err := h.service.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Delete godoc
// @Summary Delete account
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Ack
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Export godoc
// @Summary Export member directory
// @Description Renders active accounts as csv, pdf or xlsx, optionally limited to one district
// @Tags Users
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param district query string false "District filter"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /users/export [get]
func (h *UserHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		response.Error(c, err)
		return
	}
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	district := strings.TrimSpace(c.Query("district"))
	title := directoryTitle
	if district != "" {
		title += " - " + district
	}
	doc, err := renderer.Render(service.MemberDirectory(users, district), title)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render directory"))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="member-directory.%s"`, format))
	c.Data(http.StatusOK, format.ContentType(), doc)
}
