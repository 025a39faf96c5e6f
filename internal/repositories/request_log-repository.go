package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
)

// Журнал переходов append-only: репозиторий умеет только добавлять и читать.
// UPDATE и DELETE по request_logs не существуют намеренно.
type RequestLogRepositoryInterface interface {
	AppendLogInTx(ctx context.Context, tx pgx.Tx, log *entities.RequestLog) error
	FindByRequestID(ctx context.Context, requestID uint64, limit, offset uint64) ([]entities.RequestLog, error)
	CountByRequestID(ctx context.Context, requestID uint64) (uint64, error)
}

type RequestLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestLogRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestLogRepositoryInterface {
	return &RequestLogRepository{storage: storage, logger: logger}
}

// AppendLogInTx пишет строку журнала в той же транзакции, что и смена статуса,
// которую она фиксирует: откат одной означает откат другой.
func (r *RequestLogRepository) AppendLogInTx(ctx context.Context, tx pgx.Tx, log *entities.RequestLog) error {
	query := `
		INSERT INTO request_logs (request_id, old_status, new_status, changed_by, tx_id, changed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := tx.Exec(ctx, query,
		log.RequestID, log.OldStatus, log.NewStatus, log.ChangedBy, log.TxID,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи журнала заявки: %w", err)
	}
	return nil
}

func (r *RequestLogRepository) FindByRequestID(ctx context.Context, requestID uint64, limit, offset uint64) ([]entities.RequestLog, error) {
	query := `
		SELECT l.id, l.request_id, l.old_status, l.new_status, l.changed_by, l.tx_id, l.changed_at,
		       u.id, u.fio, u.email, u.role
		FROM request_logs l
			JOIN users u ON l.changed_by = u.id
		WHERE l.request_id = $1
		ORDER BY l.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.storage.Query(ctx, query, requestID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entities.RequestLog, 0)
	for rows.Next() {
		var log entities.RequestLog
		var user entities.User
		if err := rows.Scan(
			&log.ID, &log.RequestID, &log.OldStatus, &log.NewStatus,
			&log.ChangedBy, &log.TxID, &log.ChangedAt,
			&user.ID, &user.Fio, &user.Email, &user.Role,
		); err != nil {
			return nil, err
		}
		log.ChangedByUser = &user
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *RequestLogRepository) CountByRequestID(ctx context.Context, requestID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(id) FROM request_logs WHERE request_id = $1`, requestID).Scan(&count)
	return count, err
}
