package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

// uniqueViolation is the Postgres error code raised when the
// (event_id, requester_id) unique constraint is hit.
const uniqueViolation = "23505"

type requestRepository struct {
	DB *sql.DB
}

// NewRequestRepository creates a RequestRepository backed by Postgres.
func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{DB: db}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	query := `
		INSERT INTO participation_requests (created, event_id, requester_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		req.Created, req.EventID, req.RequesterID, string(req.Status),
	).Scan(&req.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("request already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	query := `
		SELECT id, created, event_id, requester_id, status
		FROM participation_requests
		WHERE id = $1
	`
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, created, event_id, requester_id, status
		FROM participation_requests
		WHERE requester_id = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *requestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, created, event_id, requester_id, status
		FROM participation_requests
		WHERE event_id = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *requestRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT id, created, event_id, requester_id, status
		FROM participation_requests
		WHERE id = ANY($1)
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *requestRepository) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM participation_requests WHERE requester_id = $1 AND event_id = $2)`,
		requesterID, eventID,
	).Scan(&exists)
	return exists, err
}

func (r *requestRepository) CountByEventAndStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`,
		eventID, string(status),
	).Scan(&count)
	return count, err
}

func (r *requestRepository) UpdateStatusByIDs(ctx context.Context, ids []int64, status domain.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE participation_requests SET status = $2 WHERE id = ANY($1)`,
		pq.Array(ids), string(status),
	)
	return err
}

func (r *requestRepository) RejectAllPending(ctx context.Context, eventID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE participation_requests SET status = 'REJECTED' WHERE event_id = $1 AND status = 'PENDING'`,
		eventID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRequest(row rowScanner) (*domain.ParticipationRequest, error) {
	req := &domain.ParticipationRequest{}
	var status string
	if err := row.Scan(&req.ID, &req.Created, &req.EventID, &req.RequesterID, &status); err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatus(status)
	return req, nil
}

func collectRequests(rows *sql.Rows) ([]*domain.ParticipationRequest, error) {
	defer rows.Close()

	var reqs []*domain.ParticipationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}
