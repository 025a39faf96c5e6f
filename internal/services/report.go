package services

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/types"
)

type ReportServiceInterface interface {
	BuildRequestsReport(ctx context.Context, actor *authz.Actor, filter types.Filter) (*excelize.File, error)
}

// ReportService выгружает заявки в Excel. Видимость та же, что и в списке:
// отчёт строится поверх GetRequests и наследует командные ограничения.
type ReportService struct {
	requestService RequestServiceInterface
	logger         *zap.Logger
}

func NewReportService(requestService RequestServiceInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{requestService: requestService, logger: logger}
}

var reportHeaders = []string{"ID", "Тема", "Тип", "Статус", "Оборудование", "Команда", "Исполнитель", "Плановая дата", "Часы", "Создана"}

func (s *ReportService) BuildRequestsReport(ctx context.Context, actor *authz.Actor, filter types.Filter) (*excelize.File, error) {
	filter.WithPagination = false
	requests, _, err := s.requestService.GetRequests(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Заявки"
	f.SetSheetName("Sheet1", sheet)

	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}

	for rowIdx, req := range requests {
		row := rowIdx + 2
		values := []interface{}{
			req.ID,
			req.Subject,
			req.Type,
			req.Status,
			req.EquipmentID,
			req.TeamID,
			"",
			"",
			"",
			"",
		}
		if req.AssignedTo != nil {
			values[6] = *req.AssignedTo
		}
		if req.ScheduledDate != nil {
			values[7] = req.ScheduledDate.Format("02.01.2006")
		}
		if req.DurationHours != nil {
			values[8] = *req.DurationHours
		}
		if req.CreatedAt != nil {
			values[9] = req.CreatedAt.Format("02.01.2006 15:04")
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	s.logger.Info("Отчёт по заявкам сформирован",
		zap.Uint64("actorID", actor.ID), zap.Int("rows", len(requests)))
	return f, nil
}

// имя файла выгрузки для заголовка Content-Disposition
func ReportFileName() string {
	return "maintenance-requests.xlsx"
}
