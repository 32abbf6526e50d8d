package handler

import (
	"net/http"

	"garagemitre/internal/dto"
	"garagemitre/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketsHandler struct{ svc service.TicketService }

func NewTicketsHandler(svc service.TicketService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

// Register godoc
// @Summary Registra un ticket de estadia con precio
// @Tags tickets
// @Accept json
// @Produce json
// @Param body body dto.RegisterTicketRequest true "Datos del ticket"
// @Success 201 {object} model.TicketRegistration
// @Failure 400 {object} apierror.APIError
// @Router /v1/tickets [post]
func (h *TicketsHandler) Register(c *gin.Context) {
	var req dto.RegisterTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterTicket(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegisterDay godoc
// @Summary Registra un ticket por dia (tarifa plana)
// @Tags tickets
// @Accept json
// @Produce json
// @Param body body dto.RegisterDayTicketRequest true "Datos del ticket diario"
// @Success 201 {object} model.TicketRegistrationForDay
// @Failure 400 {object} apierror.APIError
// @Router /v1/tickets/day [post]
func (h *TicketsHandler) RegisterDay(c *gin.Context) {
	var req dto.RegisterDayTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterDayTicket(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegisterOtherPayment godoc
// @Summary Registra un ingreso o egreso manual de caja
// @Tags tickets
// @Accept json
// @Produce json
// @Param body body dto.OtherPaymentRequest true "Movimiento manual"
// @Success 201 {object} model.OtherPayment
// @Failure 400 {object} apierror.APIError
// @Router /v1/other-payments [post]
func (h *TicketsHandler) RegisterOtherPayment(c *gin.Context) {
	var req dto.OtherPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterOtherPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
