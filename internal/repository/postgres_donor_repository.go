package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

const donorColumns = `id, full_name, email, phone, category, branch, academic_year, roll_no,
               age, weight_kg, blood_group, medical_conditions, status,
               registered_at, approved_at, completed_at, rejection_reason,
               units_collected, operator_notes`

type postgresDonorRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDonorRepository instantiates the Postgres-backed store.
func NewPostgresDonorRepository(pool *pgxpool.Pool) DonorRepository {
	return &postgresDonorRepository{pool: pool}
}

func (r *postgresDonorRepository) Create(ctx context.Context, donor *domain.DonorRegistration) error {
	const query = `
        INSERT INTO donor_registrations
            (full_name, email, phone, category, branch, academic_year, roll_no,
             age, weight_kg, blood_group, medical_conditions, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, registered_at`
	return r.pool.QueryRow(ctx, query,
		donor.FullName,
		donor.Email,
		donor.Phone,
		donor.Category,
		donor.Branch,
		donor.Year,
		donor.RollNo,
		donor.Age,
		donor.WeightKg,
		donor.BloodGroup,
		donor.MedicalConditions,
		donor.Status,
	).Scan(&donor.ID, &donor.RegisteredAt)
}

func (r *postgresDonorRepository) GetByID(ctx context.Context, id string) (*domain.DonorRegistration, error) {
	query := fmt.Sprintf(`SELECT %s FROM donor_registrations WHERE id=$1`, donorColumns)
	donor, err := scanDonor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	return donor, nil
}

func (r *postgresDonorRepository) Search(ctx context.Context, filter DonorFilter) ([]domain.DonorRegistration, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.BloodGroup != nil {
		args = append(args, *filter.BloodGroup)
		clauses = append(clauses, fmt.Sprintf("blood_group=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(full_name) LIKE %s OR LOWER(email) LIKE %s OR phone LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM donor_registrations WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "registered_at DESC"
	if filter.SortByCompletion() {
		orderBy = "completed_at DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM donor_registrations WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		donorColumns, where, orderBy, filter.Limit(), filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	donors, err := scanDonors(rows)
	if err != nil {
		return nil, 0, err
	}
	return donors, total, nil
}

func (r *postgresDonorRepository) Transition(ctx context.Context, transition StatusTransition) (*domain.DonorRegistration, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	update := fmt.Sprintf(`
        UPDATE donor_registrations
        SET status=$1, approved_at=COALESCE($2, approved_at), completed_at=$3,
            rejection_reason=COALESCE($4, rejection_reason),
            units_collected=COALESCE($5, units_collected),
            operator_notes=COALESCE($6, operator_notes)
        WHERE id=$7 AND status=$8
        RETURNING %s`, donorColumns)

	donor, err := scanDonor(tx.QueryRow(ctx, update,
		transition.To,
		transition.ApprovedAt,
		transition.CompletedAt,
		transition.RejectionReason,
		transition.UnitsCollected,
		transition.OperatorNotes,
		transition.DonorID,
		transition.From,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, transition.DonorID)
		}
		return nil, err
	}

	const insertActivity = `
        INSERT INTO donor_activity (donor_id, donor_name, blood_group, status, detail, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := tx.Exec(ctx, insertActivity,
		transition.Activity.DonorID,
		transition.Activity.DonorName,
		transition.Activity.BloodGroup,
		transition.Activity.Status,
		transition.Activity.Detail,
		transition.Activity.OccurredAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return donor, nil
}

// classifyMissedUpdate distinguishes "no such donor" from "someone else won
// the transition race" after a conditional update matched zero rows.
func (r *postgresDonorRepository) classifyMissedUpdate(ctx context.Context, id string) error {
	var status domain.DonorStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM donor_registrations WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDonorNotFound
	}
	if err != nil {
		return err
	}
	return ErrStatusConflict
}

func (r *postgresDonorRepository) LastCompletionForContact(ctx context.Context, email, phone, excludeID string) (*time.Time, error) {
	const query = `
        SELECT MAX(completed_at) FROM donor_registrations
        WHERE status='completed' AND id::text <> $1
          AND (LOWER(email)=LOWER($2) OR phone=$3)`
	var last *time.Time
	if err := r.pool.QueryRow(ctx, query, excludeID, email, phone).Scan(&last); err != nil {
		return nil, err
	}
	return last, nil
}

func (r *postgresDonorRepository) CountByStatus(ctx context.Context) (map[domain.DonorStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM donor_registrations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.DonorStatus]int)
	for rows.Next() {
		var status domain.DonorStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *postgresDonorRepository) UnitsByBloodGroup(ctx context.Context) (map[domain.BloodGroup]int, error) {
	const query = `
        SELECT blood_group, COALESCE(SUM(units_collected), 0)
        FROM donor_registrations
        WHERE status='completed'
        GROUP BY blood_group`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make(map[domain.BloodGroup]int)
	for rows.Next() {
		var group domain.BloodGroup
		var sum int
		if err := rows.Scan(&group, &sum); err != nil {
			return nil, err
		}
		units[group] = sum
	}
	return units, rows.Err()
}

func (r *postgresDonorRepository) CompletionsByDay(ctx context.Context, from time.Time) ([]TrendPoint, error) {
	const query = `
        SELECT completed_at::date AS day, COUNT(*)
        FROM donor_registrations
        WHERE status='completed' AND completed_at >= $1
        GROUP BY day
        ORDER BY day`
	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var point TrendPoint
		if err := rows.Scan(&point.Day, &point.Completed); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

func scanDonor(row pgx.Row) (*domain.DonorRegistration, error) {
	var donor domain.DonorRegistration
	if err := row.Scan(
		&donor.ID,
		&donor.FullName,
		&donor.Email,
		&donor.Phone,
		&donor.Category,
		&donor.Branch,
		&donor.Year,
		&donor.RollNo,
		&donor.Age,
		&donor.WeightKg,
		&donor.BloodGroup,
		&donor.MedicalConditions,
		&donor.Status,
		&donor.RegisteredAt,
		&donor.ApprovedAt,
		&donor.CompletedAt,
		&donor.RejectionReason,
		&donor.UnitsCollected,
		&donor.OperatorNotes,
	); err != nil {
		return nil, err
	}
	return &donor, nil
}

func scanDonors(rows pgx.Rows) ([]domain.DonorRegistration, error) {
	var result []domain.DonorRegistration
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *donor)
	}
	return result, rows.Err()
}
