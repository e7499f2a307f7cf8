package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/decor-rental-service/internal/domain"
	bookingRepo "github.com/m04kA/decor-rental-service/internal/infra/storage/booking"
	"github.com/m04kA/decor-rental-service/internal/service/bookings/models"
	"github.com/m04kA/decor-rental-service/pkg/ptr"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByItemWithFilter(ctx context.Context, filter domain.ItemBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error {
	return m.Called(ctx, id, from, reason).Error(0)
}

func (m *MockBookingRepository) ExpirePending(ctx context.Context, createdBefore time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) ObserveHoldsExpired(n int) {
	m.Called(n)
}

// inlineTx выполняет функцию без реальной транзакции
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	repo      *MockBookingRepository
	publisher *MockEventPublisher
	metrics   *MockMetrics
	service   *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockBookingRepository),
		publisher: new(MockEventPublisher),
		metrics:   new(MockMetrics),
	}
	f.service = NewService(f.repo, inlineTx{}, f.publisher, f.metrics, nopLogger{}).
		WithTimeProvider(fixedTime{testNow})
	return f
}

func testBooking(id int64, userID int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		OrderID:    "ord-1001",
		UserID:     userID,
		ItemID:     7,
		StartDate:  time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC),
		Quantity:   2,
		Status:     status,
		ItemName:   "Brass candelabra",
		RentalDays: 2,
		DailyRate:  decimal.RequireFromString("45"),
		Subtotal:   decimal.RequireFromString("180"),
		Tax:        decimal.RequireFromString("36"),
		Deposit:    decimal.RequireFromString("54"),
		Total:      decimal.RequireFromString("216"),
		CreatedAt:  testNow.Add(-time.Hour),
		UpdatedAt:  testNow.Add(-time.Hour),
	}
}

func eventOf(eventType string, status domain.BookingStatus) interface{} {
	return mock.MatchedBy(func(e domain.BookingEvent) bool {
		return e.Type == eventType && e.Status == string(status) && e.ID != ""
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   models.Actor
		repoErr error
		wantErr error
	}{
		{"Owner", models.Actor{UserID: 10}, nil, nil},
		{"Admin", models.Actor{UserID: 99, IsAdmin: true}, nil, nil},
		{"Stranger", models.Actor{UserID: 11}, nil, ErrAccessDenied},
		{"Not found", models.Actor{UserID: 10}, bookingRepo.ErrBookingNotFound, ErrBookingNotFound},
		{"Repository failure", models.Actor{UserID: 10}, errors.New("db down"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.repoErr != nil {
				f.repo.On("GetByID", ctx, int64(1)).Return(nil, tt.repoErr)
			} else {
				f.repo.On("GetByID", ctx, int64(1)).Return(testBooking(1, 10, domain.StatusPending), nil)
			}

			resp, err := f.service.GetByID(ctx, 1, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "216.00", resp.Total)
			assert.Equal(t, "270.00", resp.TotalDue)
			assert.Equal(t, "2026-10-23", resp.StartDate)
		})
	}
}

func TestService_GetUserBookings(t *testing.T) {
	ctx := context.Background()

	t.Run("Filtered by status", func(t *testing.T) {
		f := newFixture()
		status := domain.StatusConfirmed
		f.repo.On("GetByUserID", ctx, domain.UserBookingsFilter{UserID: 10, Status: &status}).
			Return([]*domain.Booking{testBooking(1, 10, status)}, nil)

		resp, err := f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{UserID: 10, Status: ptr.Ptr("confirmed")})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)
		f.repo.AssertExpectations(t)
	})

	t.Run("Invalid status", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{UserID: 10, Status: ptr.Ptr("lost")})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})
}

func TestService_GetItemBookings(t *testing.T) {
	ctx := context.Background()
	admin := models.Actor{UserID: 1, IsAdmin: true}

	t.Run("Admin sees item bookings", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByItemWithFilter", ctx, domain.ItemBookingsFilter{ItemID: 7}).
			Return([]*domain.Booking{testBooking(1, 10, domain.StatusPending), testBooking(2, 11, domain.StatusConfirmed)}, nil)

		resp, err := f.service.GetItemBookings(ctx, &models.GetItemBookingsRequest{Actor: admin, ItemID: 7})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("Regular user is denied", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.GetItemBookings(ctx, &models.GetItemBookingsRequest{Actor: models.Actor{UserID: 10}, ItemID: 7})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("Empty period", func(t *testing.T) {
		f := newFixture()
		from := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
		_, err := f.service.GetItemBookings(ctx, &models.GetItemBookingsRequest{Actor: admin, ItemID: 7, From: &from, To: &from})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner cancels pending booking", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(1)).Return(testBooking(1, 10, domain.StatusPending), nil)
		f.repo.On("Cancel", ctx, int64(1), domain.StatusPending, "plans changed").Return(nil)
		f.publisher.On("Publish", ctx, eventOf(domain.EventBookingStatusChanged, domain.StatusCancelled)).Return(nil)

		resp, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{
			Actor:              models.Actor{UserID: 10},
			CancellationReason: "plans changed",
		})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		require.NotNil(t, resp.CancelledAt)
		assert.Equal(t, testNow.Format(time.RFC3339), *resp.CancelledAt)
		f.repo.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail the cancel", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(1)).Return(testBooking(1, 10, domain.StatusConfirmed), nil)
		f.repo.On("Cancel", ctx, int64(1), domain.StatusConfirmed, "").Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("kafka down"))

		_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{Actor: models.Actor{UserID: 99, IsAdmin: true}})
		assert.NoError(t, err)
	})

	t.Run("Picked up booking cannot be cancelled", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(1)).Return(testBooking(1, 10, domain.StatusPickedUp), nil)

		_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{Actor: models.Actor{UserID: 10}})
		assert.ErrorIs(t, err, ErrCannotCancel)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("Stranger", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(1)).Return(testBooking(1, 10, domain.StatusPending), nil)

		_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{Actor: models.Actor{UserID: 11}})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("Concurrent change", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, int64(1)).Return(testBooking(1, 10, domain.StatusPending), nil)
		f.repo.On("Cancel", ctx, int64(1), domain.StatusPending, "").Return(bookingRepo.ErrStatusConflict)

		_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{Actor: models.Actor{UserID: 10}})
		assert.ErrorIs(t, err, ErrStatusChanged)
	})

	t.Run("Reason too long", func(t *testing.T) {
		f := newFixture()
		long := make([]byte, domain.MaxCancellationReasonLength+1)
		for i := range long {
			long[i] = 'x'
		}

		_, err := f.service.Cancel(ctx, 1, &models.CancelBookingRequest{Actor: models.Actor{UserID: 10}, CancellationReason: string(long)})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	admin := models.Actor{UserID: 1, IsAdmin: true}

	tests := []struct {
		name      string
		current   domain.BookingStatus
		target    string
		actor     models.Actor
		wantErr   error
		wantWrite bool
	}{
		{"Confirm pending", domain.StatusPending, "confirmed", admin, nil, true},
		{"Pick up confirmed", domain.StatusConfirmed, "picked_up", admin, nil, true},
		{"Return picked up", domain.StatusPickedUp, "returned", admin, nil, true},
		{"Skip pickup", domain.StatusConfirmed, "returned", admin, ErrInvalidTransition, false},
		{"Reopen cancelled", domain.StatusCancelled, "confirmed", admin, ErrInvalidTransition, false},
		{"Cancel via status", domain.StatusPending, "cancelled", admin, ErrInvalidTransition, false},
		{"Unknown status", domain.StatusPending, "lost", admin, ErrInvalidInput, false},
		{"Not admin", domain.StatusPending, "confirmed", models.Actor{UserID: 10}, ErrAccessDenied, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetByID", ctx, int64(1)).Return(testBooking(1, 10, tt.current), nil).Maybe()
			if tt.wantWrite {
				target := domain.BookingStatus(tt.target)
				f.repo.On("UpdateStatus", ctx, int64(1), tt.current, target).Return(nil)
				f.publisher.On("Publish", ctx, eventOf(domain.EventBookingStatusChanged, target)).Return(nil)
			}

			resp, err := f.service.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{Actor: tt.actor, Status: tt.target})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, resp.Status)
			f.repo.AssertExpectations(t)
			f.publisher.AssertExpectations(t)
		})
	}
}

func TestService_ExpireStaleHolds(t *testing.T) {
	ctx := context.Background()
	cutoff := testNow.Add(-30 * time.Minute)

	t.Run("Expired holds are published", func(t *testing.T) {
		f := newFixture()
		first := testBooking(1, 10, domain.StatusExpired)
		second := testBooking(2, 11, domain.StatusExpired)
		f.repo.On("ExpirePending", ctx, cutoff).Return([]*domain.Booking{first, second}, nil)
		f.metrics.On("ObserveHoldsExpired", 2).Return()
		f.publisher.On("Publish", ctx, eventOf(domain.EventBookingStatusChanged, domain.StatusExpired)).Return(nil).Twice()

		n, err := f.service.ExpireStaleHolds(ctx, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		f.metrics.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Nothing to expire", func(t *testing.T) {
		f := newFixture()
		f.repo.On("ExpirePending", ctx, cutoff).Return([]*domain.Booking{}, nil)

		n, err := f.service.ExpireStaleHolds(ctx, 30*time.Minute)
		require.NoError(t, err)
		assert.Zero(t, n)
		f.metrics.AssertNotCalled(t, "ObserveHoldsExpired", mock.Anything)
	})

	t.Run("Repository failure", func(t *testing.T) {
		f := newFixture()
		f.repo.On("ExpirePending", ctx, cutoff).Return(nil, errors.New("db down"))

		_, err := f.service.ExpireStaleHolds(ctx, 30*time.Minute)
		assert.ErrorIs(t, err, ErrInternal)
	})
}
