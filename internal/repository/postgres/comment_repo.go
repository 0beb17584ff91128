package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventboard/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

// NewCommentRepository creates a CommentRepository backed by Postgres.
func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{DB: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (event_id, author_id, text, created_on)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		comment.EventID, comment.AuthorID, comment.Text, comment.CreatedOn,
	).Scan(&comment.ID)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := `
		SELECT id, event_id, author_id, text, created_on, updated_on
		FROM comments
		WHERE id = $1
	`
	comment, err := scanComment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	query := `
		UPDATE comments
		SET text = $2, updated_on = $3
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, comment.ID, comment.Text, comment.UpdatedOn)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *commentRepository) ListByEvent(ctx context.Context, eventID int64, page domain.PaginationParams) ([]*domain.Comment, error) {
	query := `
		SELECT id, event_id, author_id, text, created_on, updated_on
		FROM comments
		WHERE event_id = $1
		ORDER BY created_on DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, page.Size, page.From)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	comment := &domain.Comment{}
	var updatedOn sql.NullTime
	if err := row.Scan(&comment.ID, &comment.EventID, &comment.AuthorID, &comment.Text, &comment.CreatedOn, &updatedOn); err != nil {
		return nil, err
	}
	if updatedOn.Valid {
		comment.UpdatedOn = &updatedOn.Time
	}
	return comment, nil
}
