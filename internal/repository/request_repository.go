package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/service-requests/internal/domain"
)

// ErrNotFound is returned when a point lookup matches no row.
var ErrNotFound = errors.New("record not found")

// RequestFilter captures list predicates and the page window.
type RequestFilter struct {
	SearchTerm  *string
	Status      *domain.RequestStatus
	ServiceType *string
	// Limit <= 0 returns every matching row.
	Limit  int
	Offset int
}

// RequestRepository is the durable collection of service requests.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (bool, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.Request, int, error)
	Stats(ctx context.Context, dayStart, dayEnd time.Time) (domain.RequestStats, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository returns a Postgres-backed implementation.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, full_name, student_id, email, service_type, description,
               submission_date, status, created_at, submitter_user_id`

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	const query = `
        INSERT INTO requests (full_name, student_id, email, service_type, description, submission_date, status, submitter_user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`

	req.Status = domain.RequestStatusPending
	if err := r.pool.QueryRow(ctx, query,
		req.FullName,
		req.StudentID,
		req.Email,
		req.ServiceType,
		req.Description,
		req.SubmissionDate,
		req.Status,
		req.SubmitterUserID,
	).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id=$1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request %d: %w", id, err)
	}
	return req, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (bool, error) {
	const query = `UPDATE requests SET status=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("update request %d status: %w", id, err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.Request, int, error) {
	where, args := buildRequestWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM requests WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	query := `SELECT ` + requestColumns + ` FROM requests WHERE ` + where + ` ORDER BY id DESC`
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var result []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan request: %w", err)
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	return result, total, nil
}

func (r *requestRepository) Stats(ctx context.Context, dayStart, dayEnd time.Time) (domain.RequestStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='pending'),
               COUNT(*) FILTER (WHERE status='approved'),
               COUNT(*) FILTER (WHERE status='denied'),
               COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2)
        FROM requests`

	var stats domain.RequestStats
	if err := r.pool.QueryRow(ctx, query, dayStart, dayEnd).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Denied,
		&stats.TodayCount,
	); err != nil {
		return domain.RequestStats{}, fmt.Errorf("request stats: %w", err)
	}
	return stats, nil
}

// buildRequestWhere renders the filter predicates with positional placeholders.
func buildRequestWhere(filter RequestFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(strings.TrimSpace(*filter.SearchTerm)))+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(full_name) LIKE %s OR LOWER(student_id) LIKE %s OR LOWER(email) LIKE %s)", p, p, p))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ServiceType != nil {
		args = append(args, *filter.ServiceType)
		clauses = append(clauses, fmt.Sprintf("service_type=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

// escapeLike keeps user input from acting as LIKE wildcards.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var req domain.Request
	if err := row.Scan(
		&req.ID,
		&req.FullName,
		&req.StudentID,
		&req.Email,
		&req.ServiceType,
		&req.Description,
		&req.SubmissionDate,
		&req.Status,
		&req.CreatedAt,
		&req.SubmitterUserID,
	); err != nil {
		return nil, err
	}
	return &req, nil
}
