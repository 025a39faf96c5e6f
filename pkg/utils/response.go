package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "maintenance-system/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

type ListBody struct {
	List       interface{} `json:"list"`
	TotalCount uint64      `json:"total_count"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

func SuccessListResponse(ctx echo.Context, list interface{}, totalCount uint64, message string) error {
	return ctx.JSON(http.StatusOK, &HttpResponse{
		Status:  true,
		Body:    ListBody{List: list, TotalCount: totalCount},
		Message: message,
	})
}

// ErrorResponse переводит доменную ошибку в HTTP-статус. Ядро возвращает
// только тегированные ошибки, весь маппинг на коды живёт здесь.
func ErrorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := err.Error()

	var httpErr *echo.HTTPError
	var validationErr *apperrors.ValidationError
	var permissionErr *apperrors.PermissionDeniedError
	var transitionErr *apperrors.InvalidStatusTransitionError
	var teamMismatchErr *apperrors.TeamMismatchError
	var scrappedErr *apperrors.EquipmentScrappedError

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
	case errors.As(err, &permissionErr):
		code = http.StatusForbidden
	case errors.As(err, &transitionErr):
		code = http.StatusConflict
	case errors.As(err, &teamMismatchErr):
		code = http.StatusUnprocessableEntity
	case errors.As(err, &scrappedErr):
		code = http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrTokenIsNotRefresh),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrActorNotFoundInContext):
		code = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAccountLocked):
		code = http.StatusTooManyRequests
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
