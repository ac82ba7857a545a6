package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"user_id",
	"full_name",
	"phone",
	"email",
	"vehicle_model",
	"vehicle_color",
	"vehicle_plate",
	"created_at",
	"updated_at",
}

// Repository репозиторий профилей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID профиль пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan profile: %w", ErrScanRow, err)
	}

	return p, nil
}

// Upsert создает профиль или обновляет существующий по user_id
func (r *Repository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("profiles").
		Columns(
			"id",
			"user_id",
			"full_name",
			"phone",
			"email",
			"vehicle_model",
			"vehicle_color",
			"vehicle_plate",
		).
		Values(
			p.ID,
			p.UserID,
			p.FullName,
			p.Phone,
			p.Email,
			p.VehicleModel,
			p.VehicleColor,
			p.VehiclePlate,
		).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			vehicle_model = EXCLUDED.vehicle_model,
			vehicle_color = EXCLUDED.vehicle_color,
			vehicle_plate = EXCLUDED.vehicle_plate,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// List все профили, новые сначала
func (r *Repository) List(ctx context.Context) ([]*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("profiles").
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Phone,
		&p.Email,
		&p.VehicleModel,
		&p.VehicleColor,
		&p.VehiclePlate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
