package handler

import (
	"net/http"
	"time"

	"garagemitre/internal/apierror"
	"garagemitre/internal/service"

	"github.com/gin-gonic/gin"
)

type BoxListHandler struct{ svc service.BoxListService }

func NewBoxListHandler(svc service.BoxListService) *BoxListHandler {
	return &BoxListHandler{svc: svc}
}

// Get godoc
// @Summary Planilla de caja diaria con su detalle
// @Tags caja
// @Produce json
// @Param date path string true "Fecha YYYY-MM-DD"
// @Success 200 {object} dto.BoxListResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/box-lists/{date} [get]
func (h *BoxListHandler) Get(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Fecha inválida, use YYYY-MM-DD"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recompute godoc
// @Summary Recalcula la planilla de caja de una fecha
// @Tags caja
// @Produce json
// @Param date path string true "Fecha YYYY-MM-DD"
// @Success 200 {object} model.BoxList
// @Failure 400 {object} apierror.APIError
// @Router /v1/box-lists/{date}/recompute [post]
func (h *BoxListHandler) Recompute(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Fecha inválida, use YYYY-MM-DD"))
		return
	}
	resp, err := h.svc.Recompute(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
