package handler

import (
	"net/http"

	"garagemitre/internal/apierror"
	"garagemitre/internal/dto"
	"garagemitre/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Create godoc
// @Summary Alta de cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Param body body dto.CreateCustomerRequest true "Datos del cliente"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/customers [post]
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
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

// Get godoc
// @Summary Obtiene un cliente con sus vehiculos
// @Tags clientes
// @Produce json
// @Param id path string true "ID de cliente"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/customers/{id} [get]
func (h *CustomersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Lista clientes, opcionalmente por tipo
// @Tags clientes
// @Produce json
// @Param type query string false "OWNER | RENTER | PRIVATE"
// @Success 200 {array} dto.CustomerResponse
// @Router /v1/customers [get]
func (h *CustomersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddVehicle godoc
// @Summary Registra un vehiculo para el cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Param id path string true "ID de cliente"
// @Param body body dto.AddVehicleRequest true "Datos del vehiculo"
// @Success 201 {object} dto.VehicleResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/customers/{id}/vehicles [post]
func (h *CustomersHandler) AddVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AddVehicleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddVehicle(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
