package handler

import (
	"net/http"

	"garagemitre/internal/apierror"
	"garagemitre/internal/dto"
	"garagemitre/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReceiptsHandler struct {
	svc    service.ReceiptService
	ledger service.LedgerService
}

func NewReceiptsHandler(svc service.ReceiptService, ledger service.LedgerService) *ReceiptsHandler {
	return &ReceiptsHandler{svc: svc, ledger: ledger}
}

// Create godoc
// @Summary Emite el recibo mensual de un cliente
// @Tags recibos
// @Accept json
// @Produce json
// @Param body body dto.CreateReceiptRequest true "Cliente, periodo y monto base"
// @Success 201 {object} dto.ReceiptResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/receipts [post]
func (h *ReceiptsHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Pay godoc
// @Summary Registra el pago de un recibo
// @Tags recibos
// @Accept json
// @Produce json
// @Param id path string true "ID de recibo"
// @Param body body dto.PayReceiptRequest true "Componentes del pago"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/receipts/{id}/pay [post]
func (h *ReceiptsHandler) Pay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.PayReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary Anula un recibo pendiente
// @Tags recibos
// @Param id path string true "ID de recibo"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/receipts/{id} [delete]
func (h *ReceiptsHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByCustomer godoc
// @Summary Lista los recibos de un cliente
// @Tags recibos
// @Produce json
// @Param id path string true "ID de cliente"
// @Param status query string false "PENDING | PAID | CANCELLED"
// @Success 200 {array} dto.ReceiptResponse
// @Router /v1/customers/{id}/receipts [get]
func (h *ReceiptsHandler) ListByCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListByCustomer(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Debts godoc
// @Summary Deuda mensual pendiente de un cliente, mes mas antiguo primero
// @Tags recibos
// @Produce json
// @Param id path string true "ID de cliente"
// @Success 200 {object} dto.DebtListResponse
// @Router /v1/customers/{id}/debts [get]
func (h *ReceiptsHandler) Debts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}

	resp := dto.DebtListResponse{
		CustomerID: id.String(),
		Total:      decimal.Zero,
		Months:     []dto.MonthDebtResponse{},
	}
	for d, err := range h.ledger.DebtFor(c.Request.Context(), id) {
		if err != nil {
			respondError(c, err)
			return
		}
		resp.Months = append(resp.Months, dto.MonthDebtResponse{
			Month:  d.Month.Format("2006-01"),
			Amount: d.Amount,
		})
		resp.Total = resp.Total.Add(d.Amount)
	}
	c.JSON(http.StatusOK, resp)
}
