package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

type compilationRepository struct {
	DB *sql.DB
}

// NewCompilationRepository creates a CompilationRepository backed by Postgres.
// Event membership lives in the compilation_events junction table and is
// rewritten atomically with the compilation row.
func NewCompilationRepository(db *sql.DB) domain.CompilationRepository {
	return &compilationRepository{DB: db}
}

func (r *compilationRepository) Create(ctx context.Context, comp *domain.Compilation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
		comp.Title, comp.Pinned,
	).Scan(&comp.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("compilation title must be unique: %w", domain.ErrConflict)
		}
		return err
	}

	if err := insertCompilationEvents(ctx, tx, comp.ID, comp.EventIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *compilationRepository) GetByID(ctx context.Context, id int64) (*domain.Compilation, error) {
	comp := &domain.Compilation{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id,
	).Scan(&comp.ID, &comp.Title, &comp.Pinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	comp.EventIDs, err = r.eventIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return comp, nil
}

func (r *compilationRepository) Update(ctx context.Context, comp *domain.Compilation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE compilations SET title = $2, pinned = $3 WHERE id = $1`,
		comp.ID, comp.Title, comp.Pinned,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM compilation_events WHERE compilation_id = $1`, comp.ID,
	); err != nil {
		return err
	}
	if err := insertCompilationEvents(ctx, tx, comp.ID, comp.EventIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *compilationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *compilationRepository) List(ctx context.Context, pinned *bool, page domain.PaginationParams) ([]*domain.Compilation, error) {
	query := `SELECT id, title, pinned FROM compilations`
	args := []any{page.Size, page.From}
	if pinned != nil {
		query += ` WHERE pinned = $3`
		args = append(args, *pinned)
	}
	query += ` ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	compilations := []*domain.Compilation{}
	for rows.Next() {
		comp := &domain.Compilation{}
		if err := rows.Scan(&comp.ID, &comp.Title, &comp.Pinned); err != nil {
			return nil, err
		}
		compilations = append(compilations, comp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, comp := range compilations {
		comp.EventIDs, err = r.eventIDs(ctx, comp.ID)
		if err != nil {
			return nil, err
		}
	}
	return compilations, nil
}

func (r *compilationRepository) eventIDs(ctx context.Context, compilationID int64) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT event_id FROM compilation_events WHERE compilation_id = $1 ORDER BY event_id`,
		compilationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertCompilationEvents(ctx context.Context, tx *sql.Tx, compilationID int64, eventIDs []int64) error {
	for _, eventID := range eventIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
			compilationID, eventID,
		); err != nil {
			return err
		}
	}
	return nil
}
