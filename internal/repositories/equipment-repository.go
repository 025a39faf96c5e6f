package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const equipmentSelectFieldsRepo = "e.id, e.name, e.serial_number, e.department, e.location, e.purchase_date, e.warranty_end, e.team_id, e.is_scrapped, e.created_at, e.updated_at"

var equipmentAllowedFilterFields = map[string]bool{"team_id": true, "is_scrapped": true, "department": true}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error
	MarkScrapped(ctx context.Context, id uint64) error
	MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	CountByTeamID(ctx context.Context, teamID uint64) (uint64, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Department, &e.Location,
		&e.PurchaseDate, &e.WarrantyEnd, &e.TeamID, &e.IsScrapped,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	args := make([]interface{}, 0)
	conditions := []string{"1=1"}

	for key, value := range filter.Filter {
		if !equipmentAllowedFilterFields[key] {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("e.%s = $%d", key, len(args)+1))
		args = append(args, value)
	}

	if filter.Search != "" {
		placeholder := fmt.Sprintf("$%d", len(args)+1)
		conditions = append(conditions, fmt.Sprintf("(e.name ILIKE %s OR e.serial_number ILIKE %s)", placeholder, placeholder))
		args = append(args, "%"+filter.Search+"%")
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var totalCount uint64
	countQuery := fmt.Sprintf("SELECT COUNT(e.id) FROM equipments e %s", whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета оборудования: %w", err)
	}
	if totalCount == 0 {
		return []entities.Equipment{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM equipments e %s ORDER BY e.id DESC %s", equipmentSelectFieldsRepo, whereClause, limitClause)
	r.logger.Debug("Выполнение SQL-запроса на выборку оборудования", zap.String("query", query))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *e)
	}
	return items, totalCount, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipments e WHERE e.id = $1", equipmentSelectFieldsRepo)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

// FindEquipmentForUpdateInTx блокирует строку оборудования на время транзакции.
func (r *EquipmentRepository) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipments e WHERE e.id = $1 FOR UPDATE", equipmentSelectFieldsRepo)
	return scanEquipment(tx.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments (name, serial_number, department, location, purchase_date, warranty_end, team_id, is_scrapped, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
		RETURNING id`

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		equipment.Name, equipment.SerialNumber, equipment.Department, equipment.Location,
		equipment.PurchaseDate, equipment.WarrantyEnd, equipment.TeamID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.NewValidationError("оборудование с серийным номером %q уже существует", equipment.SerialNumber)
		}
		return 0, fmt.Errorf("ошибка создания оборудования: %w", err)
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	query := `
		UPDATE equipments
		SET name = $1, serial_number = $2, department = $3, location = $4, purchase_date = $5, warranty_end = $6, team_id = $7, updated_at = NOW()
		WHERE id = $8 AND is_scrapped = FALSE`

	tag, err := r.storage.Exec(ctx, query,
		equipment.Name, equipment.SerialNumber, equipment.Department, equipment.Location,
		equipment.PurchaseDate, equipment.WarrantyEnd, equipment.TeamID, equipment.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewValidationError("оборудование с серийным номером %q уже существует", equipment.SerialNumber)
		}
		return fmt.Errorf("ошибка обновления оборудования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) MarkScrapped(ctx context.Context, id uint64) error {
	return r.markScrapped(ctx, r.storage, id)
}

// MarkScrappedInTx — каскад списания внутри транзакции операции scrap.
func (r *EquipmentRepository) MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	return r.markScrapped(ctx, tx, id)
}

// markScrapped идемпотентен: повторное списание не ошибка и не меняет строку.
func (r *EquipmentRepository) markScrapped(ctx context.Context, q querier, id uint64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM equipments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("ошибка проверки оборудования: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}

	_, err := q.Exec(ctx, `UPDATE equipments SET is_scrapped = TRUE, updated_at = NOW() WHERE id = $1 AND is_scrapped = FALSE`, id)
	if err != nil {
		return fmt.Errorf("ошибка списания оборудования: %w", err)
	}
	return nil
}

func (r *EquipmentRepository) CountByTeamID(ctx context.Context, teamID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(id) FROM equipments WHERE team_id = $1`, teamID).Scan(&count)
	return count, err
}
