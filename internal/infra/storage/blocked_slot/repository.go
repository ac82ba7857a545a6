package blocked_slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"blocked_date",
	"start_time",
	"end_time",
	"is_full_day",
	"reason",
	"created_at",
}

// Repository реестр административных блокировок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет блокировку
// Для полного дня start_time/end_time пишутся как NULL
func (r *Repository) Create(ctx context.Context, block *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	if block.IsFullDay {
		block.StartTime = ""
		block.EndTime = ""
	}

	query, args, err := psqlbuilder.Insert("blocked_slots").
		Columns("id", "blocked_date", "start_time", "end_time", "is_full_day", "reason").
		Values(
			block.ID,
			block.BlockedDate.Format(domain.DateFormat),
			block.StartTime,
			block.EndTime,
			block.IsFullDay,
			block.Reason,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time

	return block, nil
}

// GetByDate блокировки на конкретную дату
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	return r.query(ctx, "GetByDate",
		psqlbuilder.Select(columns...).
			From("blocked_slots").
			Where(squirrel.Eq{"blocked_date": date.Format(domain.DateFormat)}).
			OrderBy("is_full_day DESC", "start_time ASC"),
	)
}

// GetByRange блокировки за период (включительно), по дате
func (r *Repository) GetByRange(ctx context.Context, from, to time.Time) ([]*domain.BlockedSlot, error) {
	return r.query(ctx, "GetByRange",
		psqlbuilder.Select(columns...).
			From("blocked_slots").
			Where(squirrel.GtOrEq{"blocked_date": from.Format(domain.DateFormat)}).
			Where(squirrel.LtOrEq{"blocked_date": to.Format(domain.DateFormat)}).
			OrderBy("blocked_date ASC", "start_time ASC"),
	)
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedSlotNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedSlot, 0)
	for rows.Next() {
		var block domain.BlockedSlot
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.BlockedDate,
			&block.StartTime,
			&block.EndTime,
			&block.IsFullDay,
			&block.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}

		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return blocks, nil
}
