package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"
)

type TeamController struct {
	teamService services.TeamServiceInterface
	actors      services.ActorResolverInterface
	logger      *zap.Logger
}

func NewTeamController(
	teamService services.TeamServiceInterface,
	actors services.ActorResolverInterface,
	logger *zap.Logger,
) *TeamController {
	return &TeamController{
		teamService: teamService,
		actors:      actors,
		logger:      logger,
	}
}

func (c *TeamController) GetTeams(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, totalCount, err := c.teamService.GetTeams(reqCtx, actor, filter)
	if err != nil {
		c.logger.Error("Ошибка при получении списка команд", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessListResponse(ctx, list, totalCount, "Команды успешно получены")
}

func (c *TeamController) FindTeam(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.teamService.FindTeam(reqCtx, actor, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Команда успешно получена", http.StatusOK)
}

func (c *TeamController) CreateTeam(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateTeamDTO
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

	res, err := c.teamService.CreateTeam(reqCtx, actor, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Команда успешно создана", http.StatusCreated)
}

func (c *TeamController) UpdateTeam(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	var payload dto.UpdateTeamDTO
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

	res, err := c.teamService.UpdateTeam(reqCtx, actor, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Команда успешно обновлена", http.StatusOK)
}

func (c *TeamController) DeleteTeam(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID"))
	}

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.teamService.DeleteTeam(reqCtx, actor, id); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Команда удалена", http.StatusOK)
}
