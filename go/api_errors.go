package laundryserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/freshfold/laundry-api/internal/domains/cashledger/application"
	driversapp "github.com/freshfold/laundry-api/internal/domains/drivers/application"
	driverports "github.com/freshfold/laundry-api/internal/domains/drivers/ports"
	ordersapp "github.com/freshfold/laundry-api/internal/domains/orders/application"
	ordersports "github.com/freshfold/laundry-api/internal/domains/orders/ports"
	apierrors "github.com/freshfold/laundry-api/internal/shared/errors"
)

// responder maps application errors of every bounded context to problem details.
var responder = apierrors.NewChainedResponder("",
	transitionProblem,
	sentinelProblem,
)

// respondBadRequest answers a request whose input could not be decoded.
func respondBadRequest(c *gin.Context, err error) {
	responder.BadRequest(c, err)
}

// respondServiceError answers with the problem matching an application error.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func transitionProblem(err error) (apierrors.ProblemDetail, bool) {
	var transition *ordersapp.TransitionError
	if !errors.As(err, &transition) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrInvalidTransition.
		WithDetail(err.Error()).
		WithExtension("reason", string(transition.Reason)).
		WithExtension("status", string(transition.Status)), true
}

func sentinelProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrPaymentRequired):
		return apierrors.ErrPaymentRequired.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrVersionConflict):
		return apierrors.ErrVersionConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidTransition),
		errors.Is(err, ordersapp.ErrDriverUnavailable):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, driverports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, driversapp.ErrInvalidInput),
		errors.Is(err, ledgerapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrPersistence):
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
