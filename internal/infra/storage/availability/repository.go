package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/salonmarket/booking-service/internal/domain"
	"github.com/salonmarket/booking-service/pkg/dbmetrics"
	"github.com/salonmarket/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий деклараций доступности мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или перезаписывает декларацию доступности для (master_id, date).
// На пару (master_id, date) существует не более одной живой строки (частичный
// уникальный индекс по deleted_at IS NULL), повторная декларация перезаписывает поля.
func (r *Repository) Upsert(ctx context.Context, av *domain.Availability) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability").
		Columns(
			"master_id",
			"date",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"is_available",
		).
		Values(
			av.MasterID,
			av.Date,
			av.StartTime,
			av.EndTime,
			av.SlotDurationMinutes,
			av.IsAvailable,
		).
		Suffix(`ON CONFLICT (master_id, date) WHERE deleted_at IS NULL DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			is_available = EXCLUDED.is_available,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&av.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	av.CreatedAt = createdAt.Time
	av.UpdatedAt = updatedAt.Time

	return av, nil
}

// GetByID получает декларацию по ID (только живые строки)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectLive().Where(squirrel.Eq{"id": id})

	// В транзакции блокируем строку на время check-then-write
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByMasterAndDate получает декларацию мастера на конкретную дату
func (r *Repository) GetByMasterAndDate(ctx context.Context, masterID int64, date time.Time) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectLive().Where(squirrel.Eq{
		"master_id": masterID,
		"date":      date,
	})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMasterAndDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByMasterAndDate")
}

// ListByMaster получает все живые декларации мастера, начиная с ближайших дат
func (r *Repository) ListByMaster(ctx context.Context, masterID int64) ([]*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectLive().
		Where(squirrel.Eq{"master_id": masterID}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByMaster - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByMaster - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// Update обновляет поля декларации
func (r *Repository) Update(ctx context.Context, av *domain.Availability) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability").
		Set("start_time", av.StartTime).
		Set("end_time", av.EndTime).
		Set("slot_duration_minutes", av.SlotDurationMinutes).
		Set("is_available", av.IsAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": av.ID}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

// SoftDelete помечает декларацию удаленной (отзыв доступности)
func (r *Repository) SoftDelete(ctx context.Context, id int64, masterID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "master_id": masterID}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

// PurgeDeleted физически удаляет soft-deleted строки старше указанного момента.
// Используется фоновой задачей очистки.
func (r *Repository) PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability").
		Where("deleted_at IS NOT NULL").
		Where(squirrel.Lt{"deleted_at": olderThan}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: PurgeDeleted - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeDeleted - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeDeleted - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// selectLive базовый SELECT живых (не удаленных) строк
func (r *Repository) selectLive() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"master_id",
		"date",
		"start_time",
		"end_time",
		"slot_duration_minutes",
		"is_available",
		"deleted_at",
		"created_at",
		"updated_at",
	).
		From("availability").
		Where("deleted_at IS NULL")
}

func (r *Repository) scanOne(row *sql.Row, method string) (*domain.Availability, error) {
	var av domain.Availability
	var deletedAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&av.ID,
		&av.MasterID,
		&av.Date,
		&av.StartTime,
		&av.EndTime,
		&av.SlotDurationMinutes,
		&av.IsAvailable,
		&deletedAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan availability: %v", ErrScanRow, method, err)
	}

	if deletedAt.Valid {
		av.DeletedAt = &deletedAt.Time
	}
	av.CreatedAt = createdAt.Time
	av.UpdatedAt = updatedAt.Time

	return &av, nil
}

func (r *Repository) scanMany(rows *sql.Rows) ([]*domain.Availability, error) {
	list := make([]*domain.Availability, 0)

	for rows.Next() {
		var av domain.Availability
		var deletedAt sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&av.ID,
			&av.MasterID,
			&av.Date,
			&av.StartTime,
			&av.EndTime,
			&av.SlotDurationMinutes,
			&av.IsAvailable,
			&deletedAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanMany - scan row: %v", ErrScanRow, err)
		}

		if deletedAt.Valid {
			av.DeletedAt = &deletedAt.Time
		}
		av.CreatedAt = createdAt.Time
		av.UpdatedAt = updatedAt.Time

		list = append(list, &av)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanMany - rows error: %v", ErrScanRow, err)
	}

	return list, nil
}
