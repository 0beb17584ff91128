package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventboard/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestRequestRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		req        *domain.ParticipationRequest
		mock       func(mock sqlmock.Sqlmock)
		wantID     int64
		wantErr    bool
		isConflict bool
	}{
		{
			name: "success",
			req: &domain.ParticipationRequest{
				Created:     created,
				EventID:     10,
				RequesterID: 5,
				Status:      domain.RequestStatusPending,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests \(created, event_id, requester_id, status\)`).
					WithArgs(created, int64(10), int64(5), "PENDING").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
			},
			wantID:  1,
			wantErr: false,
		},
		{
			name: "duplicate request",
			req: &domain.ParticipationRequest{
				Created:     created,
				EventID:     10,
				RequesterID: 5,
				Status:      domain.RequestStatusPending,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr:    true,
			isConflict: true,
		},
		{
			name: "db error",
			req: &domain.ParticipationRequest{
				Created:     created,
				EventID:     10,
				RequesterID: 5,
				Status:      domain.RequestStatusPending,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			err = repo.Create(ctx, tt.req)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isConflict {
					require.True(t, errors.Is(err, domain.ErrConflict))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.req.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      int64
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.ParticipationRequest
		wantErr bool
	}{
		{
			name: "success",
			id:   1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, created, event_id, requester_id, status`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created", "event_id", "requester_id", "status"}).
						AddRow(int64(1), created, int64(10), int64(5), "CONFIRMED"))
			},
			want: &domain.ParticipationRequest{
				ID:          1,
				Created:     created,
				EventID:     10,
				RequesterID: 5,
				Status:      domain.RequestStatusConfirmed,
			},
			wantErr: false,
		},
		{
			name: "not found",
			id:   404,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, created, event_id, requester_id, status`).
					WithArgs(int64(404)).
					WillReturnError(sql.ErrNoRows)
			},
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, domain.ErrNotFound))
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_ListByEvent(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		eventID int64
		mock    func(mock sqlmock.Sqlmock)
		want    []*domain.ParticipationRequest
		wantErr bool
	}{
		{
			name:    "success multiple",
			eventID: 10,
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "created", "event_id", "requester_id", "status"}).
					AddRow(int64(1), created, int64(10), int64(5), "PENDING").
					AddRow(int64(2), created, int64(10), int64(6), "CONFIRMED")
				mock.ExpectQuery(`SELECT id, created, event_id, requester_id, status`).
					WithArgs(int64(10)).
					WillReturnRows(rows)
			},
			want: []*domain.ParticipationRequest{
				{ID: 1, Created: created, EventID: 10, RequesterID: 5, Status: domain.RequestStatusPending},
				{ID: 2, Created: created, EventID: 10, RequesterID: 6, Status: domain.RequestStatusConfirmed},
			},
			wantErr: false,
		},
		{
			name:    "success empty",
			eventID: 11,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, created, event_id, requester_id, status`).
					WithArgs(int64(11)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created", "event_id", "requester_id", "status"}))
			},
			want:    []*domain.ParticipationRequest{},
			wantErr: false,
		},
		{
			name:    "db error",
			eventID: 10,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, created, event_id, requester_id, status`).
					WithArgs(int64(10)).
					WillReturnError(sql.ErrConnDone)
			},
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			got, err := repo.ListByEvent(ctx, tt.eventID)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_ExistsByRequesterAndEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    bool
		wantErr bool
	}{
		{
			name: "exists",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(int64(5), int64(10)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "does not exist",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(int64(5), int64(10)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			want: false,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(int64(5), int64(10)).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			got, err := repo.ExistsByRequesterAndEvent(ctx, 5, 10)
			if tt.wantErr {
				require.Error(t, err)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_CountByEventAndStatus(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM participation_requests`).
		WithArgs(int64(10), "CONFIRMED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := NewRequestRepository(db)
	count, err := repo.CountByEventAndStatus(ctx, 10, domain.RequestStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_UpdateStatusByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE participation_requests SET status = \$2 WHERE id = ANY\(\$1\)`).
			WithArgs(pq.Array([]int64{1, 2}), "CONFIRMED").
			WillReturnResult(sqlmock.NewResult(0, 2))

		repo := NewRequestRepository(db)
		err = repo.UpdateStatusByIDs(ctx, []int64{1, 2}, domain.RequestStatusConfirmed)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ids is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRequestRepository(db)
		err = repo.UpdateStatusByIDs(ctx, nil, domain.RequestStatusConfirmed)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepository_RejectAllPending(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    int64
		wantErr bool
	}{
		{
			name: "rejects pending rows",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participation_requests SET status = 'REJECTED'`).
					WithArgs(int64(10)).
					WillReturnResult(sqlmock.NewResult(0, 4))
			},
			want: 4,
		},
		{
			name: "nothing pending",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participation_requests SET status = 'REJECTED'`).
					WithArgs(int64(10)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: 0,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE participation_requests SET status = 'REJECTED'`).
					WithArgs(int64(10)).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			got, err := repo.RejectAllPending(ctx, 10)
			if tt.wantErr {
				require.Error(t, err)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
