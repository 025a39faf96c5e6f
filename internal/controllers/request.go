package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	logService     services.RequestLogServiceInterface
	actors         services.ActorResolverInterface
	logger         *zap.Logger
}

func NewRequestController(
	requestService services.RequestServiceInterface,
	logService services.RequestLogServiceInterface,
	actors services.ActorResolverInterface,
	logger *zap.Logger,
) *RequestController {
	return &RequestController{
		requestService: requestService,
		logService:     logService,
		actors:         actors,
		logger:         logger,
	}
}

func parseIDParam(ctx echo.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}

func (c *RequestController) GetRequests(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, totalCount, err := c.requestService.GetRequests(reqCtx, actor, filter)
	if err != nil {
		c.logger.Error("Ошибка при получении списка заявок", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessListResponse(ctx, list, totalCount, "Заявки успешно получены")
}

func (c *RequestController) FindRequest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.FindRequest(reqCtx, actor, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно получена", http.StatusOK)
}

func (c *RequestController) CreateRequest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.CreateRequest(reqCtx, actor, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно создана", http.StatusCreated)
}

func (c *RequestController) AssignRequest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	var payload dto.AssignRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.AssignRequest(reqCtx, actor, id, payload.TechnicianID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявка назначена исполнителю", http.StatusOK)
}

func (c *RequestController) UpdateRequestStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	var payload dto.UpdateRequestStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.UpdateRequestStatus(reqCtx, actor, id, payload.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Статус заявки обновлён", http.StatusOK)
}

func (c *RequestController) CompleteRequest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	var payload dto.CompleteRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.CompleteRequest(reqCtx, actor, id, payload.DurationHours)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявка завершена", http.StatusOK)
}

func (c *RequestController) ScrapRequest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.requestService.ScrapRequest(reqCtx, actor, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Заявка списана", http.StatusOK)
}

func (c *RequestController) GetRequestHistory(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	history, totalCount, err := c.logService.GetHistoryByRequestID(reqCtx, actor, id,
		ctx.QueryParam("limit"), ctx.QueryParam("offset"))
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessListResponse(ctx, history, totalCount, "История заявки получена")
}
