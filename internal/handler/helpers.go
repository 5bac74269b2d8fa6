package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
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
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewFieldValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy to HTTP statuses. Stock and
// payment conflicts return 409 with their itemized payload so the POS can
// render exactly what failed.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *apierror.ValidationError
		notFoundErr   *apierror.NotFoundError
		stockErr      *apierror.InsufficientStockError
		overpayErr    *apierror.OverpaymentError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, validationErr)
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, notFoundErr)
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, stockErr)
	case errors.As(err, &overpayErr):
		c.JSON(http.StatusConflict, overpayErr)
	default:
		// Unexpected failure: log via the error middleware, answer generically.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
