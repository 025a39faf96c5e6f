package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const teamSelectFieldsRepo = "t.id, t.name, t.created_at, t.updated_at, t.deleted_at"

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, team *entities.Team) (uint64, error)
	UpdateTeam(ctx context.Context, team *entities.Team) error
	DeleteTeam(ctx context.Context, id uint64) error
}

type TeamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &TeamRepository{storage: storage, logger: logger}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var team entities.Team
	err := row.Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt, &team.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) GetTeams(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error) {
	args := make([]interface{}, 0)
	whereClause := "WHERE t.deleted_at IS NULL"

	if filter.Search != "" {
		whereClause += " AND t.name ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	var totalCount uint64
	countQuery := fmt.Sprintf("SELECT COUNT(t.id) FROM teams t %s", whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета команд: %w", err)
	}
	if totalCount == 0 {
		return []entities.Team{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM teams t %s ORDER BY t.id %s", teamSelectFieldsRepo, whereClause, limitClause)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, *team)
	}
	return teams, totalCount, rows.Err()
}

func (r *TeamRepository) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM teams t WHERE t.id = $1 AND t.deleted_at IS NULL", teamSelectFieldsRepo)
	return scanTeam(r.storage.QueryRow(ctx, query, id))
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *entities.Team) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO teams (name, created_at, updated_at) VALUES ($1, NOW(), NOW()) RETURNING id`,
		team.Name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания команды: %w", err)
	}
	return id, nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, team *entities.Team) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE teams SET name = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		team.Name, team.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления команды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) DeleteTeam(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `UPDATE teams SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления команды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
