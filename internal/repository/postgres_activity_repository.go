package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

type postgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityRepository instantiates the activity feed reader.
func NewPostgresActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &postgresActivityRepository{pool: pool}
}

func (r *postgresActivityRepository) ListRecent(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT id, donor_id, donor_name, blood_group, status, detail, occurred_at
        FROM donor_activity
        ORDER BY occurred_at DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ActivityEvent
	for rows.Next() {
		var event domain.ActivityEvent
		if err := rows.Scan(
			&event.ID,
			&event.DonorID,
			&event.DonorName,
			&event.BloodGroup,
			&event.Status,
			&event.Detail,
			&event.OccurredAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
