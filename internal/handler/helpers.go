package handler

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
	"reflect"

	"garagemitre/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// isUpstreamDown classifies driver-level connectivity failures. gorm and
// go-redis wrap the underlying net error, so errors.As reaches it through
// the chain.
func isUpstreamDown(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// respondError maps a service error to its HTTP status. Business errors keep
// their stable code in the envelope; connectivity failures become a retryable
// 503; anything else is a plain 500.
func respondError(c *gin.Context, err error) {
	be, ok := apierror.AsBusiness(err)
	if !ok {
		if isUpstreamDown(err) {
			be = apierror.UpstreamUnavailable("Base de datos no disponible, reintente en unos segundos")
		} else {
			c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
			return
		}
	}

	status := http.StatusInternalServerError
	switch be.Code {
	case apierror.CodeValidation:
		status = http.StatusBadRequest
	case apierror.CodeNotFound:
		status = http.StatusNotFound
	case apierror.CodeDuplicatePeriod,
		apierror.CodeAlreadyPaid,
		apierror.CodeInvalidStateTransition,
		apierror.CodeOverpayment:
		status = http.StatusConflict
	case apierror.CodeUpstreamUnavailable:
		status = http.StatusServiceUnavailable
	case apierror.CodeInvariantViolation:
		status = http.StatusInternalServerError
	}
	c.JSON(status, apierror.FromBusiness(be))
}
