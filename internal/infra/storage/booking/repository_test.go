package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/pkg/dbmetrics"
)

var (
	friday = time.Date(2030, 1, 4, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2030, 1, 6, 0, 0, 0, 0, time.UTC)
	stamp  = time.Date(2029, 12, 20, 12, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock, db
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns)
}

func addBookingRow(rows *sqlmock.Rows, id int64, status domain.BookingStatus, quantity int) *sqlmock.Rows {
	return rows.AddRow(
		id, "order-1", int64(5), int64(10), nil,
		friday, sunday, quantity, string(status),
		"Brass candelabra", 2, "45.00", "180.00", "36.00", "54.00", "216.00",
		nil, nil, nil, stamp, stamp,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newRepo(t)
	ctx := context.Background()

	newBooking := func() *domain.Booking {
		return &domain.Booking{
			OrderID: "order-1", UserID: 5, ItemID: 10,
			StartDate: friday, EndDate: sunday, Quantity: 2,
			Status: domain.StatusPending, ItemName: "Brass candelabra", RentalDays: 2,
			DailyRate: decimal.RequireFromString("45"), Subtotal: decimal.RequireFromString("180"),
			Tax: decimal.RequireFromString("36"), Deposit: decimal.RequireFromString("54"),
			Total: decimal.RequireFromString("216"),
		}
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rental_bookings (order_id,user_id,item_id")).
			WithArgs("order-1", int64(5), int64(10), sqlmock.AnyArg(), friday, sunday, 2, "pending",
				"Brass candelabra", 2, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(77), stamp, stamp))

		created, err := repo.Create(ctx, newBooking())
		require.NoError(t, err)
		assert.Equal(t, int64(77), created.ID)
		assert.Equal(t, stamp, created.CreatedAt)
	})

	t.Run("Duplicate order line", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO rental_bookings").
			WillReturnError(&pq.Error{Code: pqUniqueViolation})

		_, err := repo.Create(ctx, newBooking())
		assert.ErrorIs(t, err, ErrDuplicateOrderLine)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO rental_bookings").WillReturnError(sql.ErrConnDone)

		_, err := repo.Create(ctx, newBooking())
		assert.ErrorIs(t, err, ErrExecQuery)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, _ := newRepo(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM rental_bookings WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(addBookingRow(bookingRows(), 1, domain.StatusConfirmed, 2))

		booking, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, booking.Status)
		assert.Nil(t, booking.CategoryID)
		assert.Equal(t, "216.00", booking.Total.StringFixed(2))
		assert.Equal(t, friday, booking.StartDate)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("FROM rental_bookings").WithArgs(int64(2)).WillReturnRows(bookingRows())

		_, err := repo.GetByID(ctx, 2)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOverlapping(t *testing.T) {
	repo, mock, db := newRepo(t)

	query := regexp.QuoteMeta("FROM rental_bookings WHERE item_id = $1 AND status IN ($2,$3,$4) AND start_date < $5 AND end_date > $6 ORDER BY start_date ASC")

	t.Run("Without transaction", func(t *testing.T) {
		mock.ExpectQuery(query+"$").
			WithArgs(int64(10), "pending", "confirmed", "picked_up", sunday, friday).
			WillReturnRows(addBookingRow(bookingRows(), 1, domain.StatusPending, 1))

		bookings, err := repo.GetOverlapping(context.Background(), 10, friday, sunday)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("Inside transaction locks rows", func(t *testing.T) {
		mock.ExpectBegin()
		tx, err := db.Begin()
		require.NoError(t, err)
		txCtx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

		mock.ExpectQuery(query + " FOR UPDATE").
			WillReturnRows(addBookingRow(addBookingRow(bookingRows(), 1, domain.StatusPending, 1), 2, domain.StatusConfirmed, 3))

		bookings, err := repo.GetOverlapping(txCtx, 10, friday, sunday)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
		assert.Equal(t, 4, domain.BookedUnitsFor(bookings, friday, sunday))

		mock.ExpectRollback()
		require.NoError(t, tx.Rollback())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByItemWithFilter(t *testing.T) {
	repo, mock, _ := newRepo(t)

	status := domain.StatusConfirmed
	mock.ExpectQuery(regexp.QuoteMeta("WHERE item_id = $1 AND end_date > $2 AND start_date < $3 AND status = $4")).
		WithArgs(int64(10), friday, sunday, "confirmed").
		WillReturnRows(addBookingRow(bookingRows(), 3, domain.StatusConfirmed, 1))

	bookings, err := repo.GetByItemWithFilter(context.Background(), domain.ItemBookingsFilter{
		ItemID: 10, From: &friday, To: &sunday, Status: &status,
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(3), bookings[0].ID)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE item_id = $1 ORDER BY")).
		WillReturnRows(bookingRows())
	_, err = repo.GetByItemWithFilter(context.Background(), domain.ItemBookingsFilter{ItemID: 10, IncludeInactive: true})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByUserID(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 ORDER BY start_date DESC, id DESC")).
		WithArgs(int64(5)).
		WillReturnRows(addBookingRow(addBookingRow(bookingRows(), 1, domain.StatusReturned, 1), 2, domain.StatusPending, 1))

	bookings, err := repo.GetByUserID(context.Background(), domain.UserBookingsFilter{UserID: 5})
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock, _ := newRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rental_bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3")).
		WithArgs("confirmed", int64(1), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(ctx, 1, domain.StatusPending, domain.StatusConfirmed))

	mock.ExpectExec("UPDATE rental_bookings").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 1, domain.StatusPending, domain.StatusConfirmed), ErrStatusConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("SET status = $1, cancellation_reason = $2, cancelled_at = NOW(), updated_at = NOW() WHERE id = $3 AND status = $4")).
		WithArgs("cancelled", "event moved", int64(4), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), 4, domain.StatusConfirmed, "event moved"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExpirePending(t *testing.T) {
	repo, mock, _ := newRepo(t)
	cutoff := stamp.Add(-30 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE rental_bookings SET status = $1, updated_at = NOW() WHERE status = $2 AND created_at < $3 RETURNING id, order_id")).
		WithArgs("expired", "pending", cutoff).
		WillReturnRows(addBookingRow(bookingRows(), 9, domain.StatusExpired, 1))

	expired, err := repo.ExpirePending(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, domain.StatusExpired, expired[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
