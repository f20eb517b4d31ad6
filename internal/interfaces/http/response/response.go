package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "printforge.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Known domain errors carry their own HTTP
// status; anything unrecognized becomes a 500 with a generic body so
// internals never leak to clients.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = toAppError(err)
	}

	c.JSON(appErr.Code, gin.H{
		"error": appErr.Message,
	})
}

// Abort sends the error response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func toAppError(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound),
		errors.Is(err, domainerrors.ErrWalletNotFound),
		errors.Is(err, domainerrors.ErrPriceNotFound):
		return domainerrors.NotFound(err.Error())
	case errors.Is(err, domainerrors.ErrBadRequest),
		errors.Is(err, domainerrors.ErrInvalidInput),
		errors.Is(err, domainerrors.ErrInvalidReason):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrInvalidSelection):
		return domainerrors.UnprocessableEntity(err.Error(), err)
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.NewAppError(http.StatusConflict, err.Error(), err)
	case errors.Is(err, domainerrors.ErrUnauthorized),
		errors.Is(err, domainerrors.ErrTokenExpired),
		errors.Is(err, domainerrors.ErrBadSignature):
		return domainerrors.Unauthorized(err.Error())
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden(err.Error())
	case errors.Is(err, domainerrors.ErrVendorUnavailable):
		return domainerrors.BadGateway("vendor api unavailable", err)
	default:
		return domainerrors.InternalError(err)
	}
}
