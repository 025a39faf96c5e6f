package services

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/repositories"
)

type RequestLogServiceInterface interface {
	GetHistoryByRequestID(ctx context.Context, actor *authz.Actor, requestID uint64, limitStr, offsetStr string) ([]dto.RequestLogDTO, uint64, error)
}

type RequestLogService struct {
	logRepo     repositories.RequestLogRepositoryInterface
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewRequestLogService(
	logRepo repositories.RequestLogRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	logger *zap.Logger,
) RequestLogServiceInterface {
	return &RequestLogService{
		logRepo:     logRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// GetHistoryByRequestID возвращает журнал переходов заявки, новые сверху,
// вместе с общим числом записей. Доступ тот же, что и на просмотр самой заявки.
func (s *RequestLogService) GetHistoryByRequestID(ctx context.Context, actor *authz.Actor, requestID uint64, limitStr, offsetStr string) ([]dto.RequestLogDTO, uint64, error) {
	request, err := s.requestRepo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, 0, err
	}
	if err := authz.CanViewRequest(actor, request); err != nil {
		return nil, 0, err
	}

	totalCount, err := s.logRepo.CountByRequestID(ctx, requestID)
	if err != nil {
		return nil, 0, err
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	offset, _ := strconv.Atoi(offsetStr)
	if offset < 0 {
		offset = 0
	}

	logs, err := s.logRepo.FindByRequestID(ctx, requestID, uint64(limit), uint64(offset))
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.RequestLogDTO, 0, len(logs))
	for _, log := range logs {
		item := dto.RequestLogDTO{
			ID:        log.ID,
			RequestID: log.RequestID,
			NewStatus: log.NewStatus.String(),
			TxID:      log.TxID.String(),
			ChangedAt: log.ChangedAt,
		}
		if log.OldStatus != nil {
			old := log.OldStatus.String()
			item.OldStatus = &old
		}
		if log.ChangedByUser != nil {
			item.ChangedBy = mapShortUser(log.ChangedByUser)
		}
		result = append(result, item)
	}

	s.logger.Debug("История заявки сформирована",
		zap.Uint64("requestID", requestID), zap.Int("entries", len(result)))
	return result, totalCount, nil
}
