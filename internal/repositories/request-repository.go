package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const requestBareFieldsRepo = "mr.id, mr.subject, mr.description, mr.type, mr.status, mr.equipment_id, mr.team_id, mr.assigned_to, mr.scheduled_date, mr.duration_hours, mr.creator_id, mr.created_at, mr.updated_at"

var requestAllowedFilterFields = map[string]bool{
	"status":       true,
	"type":         true,
	"team_id":      true,
	"assigned_to":  true,
	"equipment_id": true,
}

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequestInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error)
	AssignInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64, status constants.RequestStatus) error
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus) error
	CompleteInTx(ctx context.Context, tx pgx.Tx, id uint64, durationHours float64) error
	CountByAssignee(ctx context.Context, userID uint64) (uint64, error)
	CountByTeamID(ctx context.Context, teamID uint64) (uint64, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

func scanBareRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var r entities.MaintenanceRequest
	err := row.Scan(
		&r.ID, &r.Subject, &r.Description, &r.Type, &r.Status,
		&r.EquipmentID, &r.TeamID, &r.AssignedTo, &r.ScheduledDate,
		&r.DurationHours, &r.CreatorID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// GetRequests строит выборку через squirrel: фильтры по белому списку полей,
// поиск по теме/описанию, пагинация.
func (r *RequestRepository) GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("maintenance_requests mr")
	for key, value := range filter.Filter {
		if !requestAllowedFilterFields[key] {
			continue
		}
		base = base.Where(sq.Eq{"mr." + key: value})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"mr.subject": pattern},
			sq.ILike{"mr.description": pattern},
		})
	}

	countSQL, countArgs, err := base.Columns("COUNT(mr.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса подсчета заявок: %w", err)
	}

	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}
	if totalCount == 0 {
		return []entities.MaintenanceRequest{}, 0, nil
	}

	listBuilder := base.Columns(requestBareFieldsRepo).OrderBy("mr.id DESC")
	if filter.WithPagination {
		listBuilder = listBuilder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса выборки заявок: %w", err)
	}
	r.logger.Debug("Выполнение SQL-запроса на выборку заявок", zap.String("query", listSQL))

	rows, err := r.storage.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]entities.MaintenanceRequest, 0)
	for rows.Next() {
		req, err := scanBareRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	return requests, totalCount, rows.Err()
}

// FindRequest возвращает заявку с развернутыми связями:
// оборудование, команда, создатель и (если есть) исполнитель.
func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf(`
		SELECT
			%s,
			e.id, e.name, e.serial_number, e.is_scrapped,
			t.id, t.name,
			c.id, c.fio, c.email, c.role,
			a.id, a.fio, a.email, a.role
		FROM maintenance_requests mr
			JOIN equipments e ON mr.equipment_id = e.id
			JOIN teams t ON mr.team_id = t.id
			JOIN users c ON mr.creator_id = c.id
			LEFT JOIN users a ON mr.assigned_to = a.id
		WHERE mr.id = $1
	`, requestBareFieldsRepo)

	var req entities.MaintenanceRequest
	var equipment entities.Equipment
	var team entities.Team
	var creator entities.User

	var assigneeID *uint64
	var assigneeFio, assigneeEmail *string
	var assigneeRole *constants.Role

	err := r.storage.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.Subject, &req.Description, &req.Type, &req.Status,
		&req.EquipmentID, &req.TeamID, &req.AssignedTo, &req.ScheduledDate,
		&req.DurationHours, &req.CreatorID, &req.CreatedAt, &req.UpdatedAt,

		&equipment.ID, &equipment.Name, &equipment.SerialNumber, &equipment.IsScrapped,

		&team.ID, &team.Name,

		&creator.ID, &creator.Fio, &creator.Email, &creator.Role,

		&assigneeID, &assigneeFio, &assigneeEmail, &assigneeRole,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	req.Equipment = &equipment
	req.Team = &team
	req.Creator = &creator
	if assigneeID != nil {
		req.Assignee = &entities.User{
			ID:    *assigneeID,
			Fio:   derefString(assigneeFio),
			Email: derefString(assigneeEmail),
		}
		if assigneeRole != nil {
			req.Assignee.Role = *assigneeRole
		}
	}
	return &req, nil
}

// FindRequestForUpdateInTx перечитывает строку заявки под блокировкой, чтобы
// проверка таблицы переходов выполнялась над актуальным статусом: из двух
// конкурентных операций над одной заявкой вторая увидит уже новый статус.
func (r *RequestRepository) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM maintenance_requests mr WHERE mr.id = $1 FOR UPDATE", requestBareFieldsRepo)
	return scanBareRequest(tx.QueryRow(ctx, query, id))
}

func (r *RequestRepository) CreateRequestInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error) {
	query := `
		INSERT INTO maintenance_requests (subject, description, type, status, equipment_id, team_id, scheduled_date, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		request.Subject, request.Description, request.Type, request.Status,
		request.EquipmentID, request.TeamID, request.ScheduledDate, request.CreatorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return id, nil
}

func (r *RequestRepository) AssignInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64, status constants.RequestStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE maintenance_requests SET assigned_to = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		technicianID, status, id,
	)
	if err != nil {
		return fmt.Errorf("ошибка назначения заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE maintenance_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) CompleteInTx(ctx context.Context, tx pgx.Tx, id uint64, durationHours float64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE maintenance_requests SET status = $1, duration_hours = $2, updated_at = NOW() WHERE id = $3`,
		constants.StatusRepaired, durationHours, id,
	)
	if err != nil {
		return fmt.Errorf("ошибка завершения заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) CountByAssignee(ctx context.Context, userID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(id) FROM maintenance_requests WHERE assigned_to = $1`, userID).Scan(&count)
	return count, err
}

func (r *RequestRepository) CountByTeamID(ctx context.Context, teamID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(id) FROM maintenance_requests WHERE team_id = $1`, teamID).Scan(&count)
	return count, err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
