package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	actors        services.ActorResolverInterface
	logger        *zap.Logger
}

func NewReportController(
	reportService services.ReportServiceInterface,
	actors services.ActorResolverInterface,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{
		reportService: reportService,
		actors:        actors,
		logger:        logger,
	}
}

// DownloadRequestsReport отдаёт xlsx-файл с заявками, видимыми актору.
func (c *ReportController) DownloadRequestsReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := c.actors.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	file, err := c.reportService.BuildRequestsReport(reqCtx, actor, filter)
	if err != nil {
		c.logger.Error("Ошибка при формировании отчёта", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, services.ReportFileName()))
	ctx.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)

	if err := file.Write(ctx.Response().Writer); err != nil {
		c.logger.Error("Ошибка при записи отчёта в ответ", zap.Error(err))
		return err
	}
	return nil
}
