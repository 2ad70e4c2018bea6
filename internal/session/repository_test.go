package session

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

var sessionRowColumns = []string{
	"id", "session_token", "booking_id", "influencer_id", "subscriber_id", "ends_at", "is_active", "ended_at", "end_reason", "created_at",
}

func TestCreateIfAbsent(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	s := &Session{ID: "s-1", SessionToken: "tok-1", BookingID: "b-1", InfluencerID: "inf-1", SubscriberID: "sub-1", EndsAt: now.Add(30 * time.Minute), CreatedAt: now}

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (booking_id) WHERE is_active DO NOTHING")).
		WithArgs("s-1", "tok-1", "b-1", "inf-1", "sub-1", s.EndsAt, now).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("s-1", "tok-1", "b-1", "inf-1", "sub-1", s.EndsAt, true, nil, nil, now))

	created, ok, err := repo.CreateIfAbsent(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, created.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAbsent_Conflict(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO streaming_sessions")).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	created, ok, err := repo.CreateIfAbsent(context.Background(), &Session{ID: "s-2", BookingID: "b-1"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, created)
}

func TestFindActiveByBooking_None(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE booking_id = $1 AND is_active")).
		WithArgs("b-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByBooking(context.Background(), "b-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeactivate(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_active")).
		WithArgs("s-1", at, "timeout").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_active")).
		WithArgs("s-1", at, "timeout").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Deactivate(context.Background(), "s-1", at, EndTimeout)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Deactivate(context.Background(), "s-1", at, EndTimeout)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDue(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active AND ends_at <= $1")).
		WithArgs(now, 100).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("s-1", "tok-1", "b-1", "inf-1", "sub-1", now.Add(-time.Minute), true, nil, nil, now.Add(-31*time.Minute)))

	due, err := repo.ListDue(context.Background(), now, 100)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}
