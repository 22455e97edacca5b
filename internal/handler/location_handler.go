package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/response"
)

type locationService interface {
	List(ctx context.Context) ([]models.ChurchLocation, error)
	Create(ctx context.Context, l models.ChurchLocation) (*models.ChurchLocation, error)
}

// LocationHandler exposes church location endpoints.
type LocationHandler struct {
	service locationService
}

func NewLocationHandler(svc locationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// List godoc
// @Summary List church locations
// @Tags Locations
// @Produce json
// @Success 200 {array} models.ChurchLocation
// @Router /locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Create godoc
// @Summary Register church location
// @Tags Locations
// @Accept json
// @Produce json
// @Param payload body models.ChurchLocation true "Location"
// @Success 200 {object} response.Ack
// @Failure 400 {object} response.ErrorBody
// @Router /locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	var req models.ChurchLocation
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid location payload"))
		return
	}
	if _, err := h.service.Create(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
