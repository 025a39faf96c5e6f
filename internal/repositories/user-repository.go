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

const userSelectFieldsRepo = "u.id, u.fio, u.email, u.phone_number, u.password, u.role, u.team_id, u.created_at, u.updated_at, u.deleted_at"

var userAllowedFilterFields = map[string]bool{"role": true, "team_id": true}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (uint64, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	DeleteUser(ctx context.Context, id uint64) error
	CountByTeamID(ctx context.Context, teamID uint64) (uint64, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Fio, &user.Email, &user.PhoneNumber, &user.Password,
		&user.Role, &user.TeamID,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	allArgs := make([]interface{}, 0)
	conditions := []string{"u.deleted_at IS NULL"}

	for key, value := range filter.Filter {
		if !userAllowedFilterFields[key] {
			continue
		}
		placeholder := fmt.Sprintf("$%d", len(allArgs)+1)
		conditions = append(conditions, fmt.Sprintf("u.%s = %s", key, placeholder))
		allArgs = append(allArgs, value)
	}

	if filter.Search != "" {
		searchPlaceholder := fmt.Sprintf("$%d", len(allArgs)+1)
		conditions = append(conditions, fmt.Sprintf("(u.fio ILIKE %s OR u.email ILIKE %s)", searchPlaceholder, searchPlaceholder))
		allArgs = append(allArgs, "%"+filter.Search+"%")
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(u.id) FROM users u %s", whereClause)

	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, allArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if totalCount == 0 {
		return []entities.User{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitPlaceholder := fmt.Sprintf("$%d", len(allArgs)+1)
		offsetPlaceholder := fmt.Sprintf("$%d", len(allArgs)+2)
		limitClause = fmt.Sprintf("LIMIT %s OFFSET %s", limitPlaceholder, offsetPlaceholder)
		allArgs = append(allArgs, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM users u %s ORDER BY u.id DESC %s", userSelectFieldsRepo, whereClause, limitClause)
	r.logger.Debug("Выполнение SQL-запроса на выборку пользователей", zap.String("query", query))

	rows, err := r.storage.Query(ctx, query, allArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, totalCount, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users u WHERE u.id = $1 AND u.deleted_at IS NULL", userSelectFieldsRepo)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users u WHERE u.email = $1 AND u.deleted_at IS NULL", userSelectFieldsRepo)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	query := `
		INSERT INTO users (fio, email, phone_number, password, role, team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id`

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		user.Fio, user.Email, user.PhoneNumber, user.Password, user.Role, user.TeamID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.NewValidationError("пользователь с таким email уже существует")
		}
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users
		SET fio = $1, email = $2, phone_number = $3, role = $4, team_id = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query,
		user.Fio, user.Email, user.PhoneNumber, user.Role, user.TeamID, user.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountByTeamID(ctx context.Context, teamID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(id) FROM users WHERE team_id = $1 AND deleted_at IS NULL`, teamID).Scan(&count)
	return count, err
}
