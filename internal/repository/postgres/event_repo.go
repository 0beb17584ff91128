package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventboard/internal/domain"
)

const eventColumns = `id, title, annotation, description, category_id, initiator_id,
		lat, lon, paid, participant_limit, request_moderation,
		event_date, created_on, published_on, state`

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository creates an EventRepository backed by Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, initiator_id,
			lat, lon, paid, participant_limit, request_moderation,
			event_date, created_on, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		event.Title, event.Annotation, event.Description, event.CategoryID, event.InitiatorID,
		event.Location.Lat, event.Location.Lon, event.Paid, event.ParticipantLimit, event.RequestModeration,
		event.EventDate, event.CreatedOn, string(event.State),
	).Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, annotation = $3, description = $4, category_id = $5,
			lat = $6, lon = $7, paid = $8, participant_limit = $9,
			request_moderation = $10, event_date = $11, published_on = $12, state = $13
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Annotation, event.Description, event.CategoryID,
		event.Location.Lat, event.Location.Lon, event.Paid, event.ParticipantLimit,
		event.RequestModeration, event.EventDate, event.PublishedOn, string(event.State),
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
	return nil
}

func (r *eventRepository) ListByInitiator(ctx context.Context, initiatorID int64, page domain.PaginationParams) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE initiator_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, initiatorID, page.Size, page.From)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1) ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE category_id = $1`, categoryID,
	).Scan(&count)
	return count, err
}

func (r *eventRepository) SearchAdmin(ctx context.Context, filter domain.AdminEventFilter, page domain.PaginationParams) ([]*domain.Event, error) {
	var conds []string
	var args []any

	if len(filter.UserIDs) > 0 {
		args = append(args, pq.Array(filter.UserIDs))
		conds = append(conds, fmt.Sprintf("initiator_id = ANY($%d)", len(args)))
	}
	if len(filter.States) > 0 {
		states := make([]string, 0, len(filter.States))
		for _, st := range filter.States {
			states = append(states, string(st))
		}
		args = append(args, pq.Array(states))
		conds = append(conds, fmt.Sprintf("state = ANY($%d)", len(args)))
	}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, pq.Array(filter.CategoryIDs))
		conds = append(conds, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if filter.RangeStart != nil {
		args = append(args, *filter.RangeStart)
		conds = append(conds, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if filter.RangeEnd != nil {
		args = append(args, *filter.RangeEnd)
		conds = append(conds, fmt.Sprintf("event_date <= $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, page.Size)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))
	args = append(args, page.From)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) SearchPublic(ctx context.Context, filter domain.PublicEventFilter, page domain.PaginationParams) ([]*domain.Event, error) {
	conds := []string{"state = 'PUBLISHED'"}
	var args []any

	if filter.Text != "" {
		args = append(args, "%"+filter.Text+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR annotation ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, pq.Array(filter.CategoryIDs))
		conds = append(conds, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if filter.Paid != nil {
		args = append(args, *filter.Paid)
		conds = append(conds, fmt.Sprintf("paid = $%d", len(args)))
	}
	if filter.RangeStart != nil {
		args = append(args, *filter.RangeStart)
		conds = append(conds, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if filter.RangeEnd != nil {
		args = append(args, *filter.RangeEnd)
		conds = append(conds, fmt.Sprintf("event_date <= $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + strings.Join(conds, " AND ")
	args = append(args, page.Size)
	query += fmt.Sprintf(" ORDER BY event_date LIMIT $%d", len(args))
	args = append(args, page.From)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	event := &domain.Event{}
	var state string
	var publishedOn sql.NullTime
	err := row.Scan(
		&event.ID, &event.Title, &event.Annotation, &event.Description,
		&event.CategoryID, &event.InitiatorID,
		&event.Location.Lat, &event.Location.Lon,
		&event.Paid, &event.ParticipantLimit, &event.RequestModeration,
		&event.EventDate, &event.CreatedOn, &publishedOn, &state,
	)
	if err != nil {
		return nil, err
	}
	event.State = domain.EventState(state)
	if publishedOn.Valid {
		t := publishedOn.Time
		event.PublishedOn = &t
	}
	return event, nil
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
