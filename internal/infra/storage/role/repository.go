package role

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

// Repository роли пользователей (admin / client)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ролей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// HasRole проверяет, что у пользователя есть роль
func (r *Repository) HasRole(ctx context.Context, userID uuid.UUID, role domain.Role) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("user_roles").
		Where(squirrel.Eq{"user_id": userID, "role": string(role)}).
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasRole - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasRole - execute query: %w", ErrExecQuery, err)
	}

	return exists, nil
}
