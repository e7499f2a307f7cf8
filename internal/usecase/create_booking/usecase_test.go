package create_booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/decor-rental-service/internal/domain"
	bookingRepo "github.com/m04kA/decor-rental-service/internal/infra/storage/booking"
	"github.com/m04kA/decor-rental-service/internal/integrations/catalogservice"
	"github.com/m04kA/decor-rental-service/pkg/ptr"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

var (
	now    = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	friday = time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		return fn(ctx, booking), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetOverlapping(ctx context.Context, itemID int64, start, end time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, itemID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type MockRulesProvider struct {
	mock.Mock
}

func (m *MockRulesProvider) GetEffective(ctx context.Context, itemID int64, categoryID *int64) (*domain.RentalRules, string, error) {
	args := m.Called(ctx, itemID, categoryID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.RentalRules), args.String(1), args.Error(2)
}

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetItem(ctx context.Context, itemID int64) (*catalogservice.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogservice.Item), args.Error(1)
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

func (m *MockMetrics) ObserveBookingCreated() {
	m.Called()
}

func (m *MockMetrics) ObserveBookingRejected(reason string) {
	m.Called(reason)
}

// inlineTx выполняет функцию без реальной транзакции
type inlineTx struct{ calls int }

func (tx *inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
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
	rules     *MockRulesProvider
	catalog   *MockCatalogClient
	tx        *inlineTx
	publisher *MockEventPublisher
	metrics   *MockMetrics
	uc        *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockBookingRepository),
		rules:     new(MockRulesProvider),
		catalog:   new(MockCatalogClient),
		tx:        &inlineTx{},
		publisher: new(MockEventPublisher),
		metrics:   new(MockMetrics),
	}
	f.uc = NewUseCase(f.repo, f.rules, f.catalog, f.tx, f.publisher, f.metrics, nopLogger{}).
		WithTimeProvider(fixedTime{now})
	return f
}

// withItem настраивает каталог и правила по умолчанию
func (f *fixture) withItem(units int) *fixture {
	f.catalog.On("GetItem", mock.Anything, int64(7)).Return(&catalogservice.Item{
		ID:         7,
		Name:       "Brass candelabra",
		DailyRate:  decimal.RequireFromString("45.00"),
		IsRentable: true,
		Units:      units,
	}, nil)
	f.rules.On("GetEffective", mock.Anything, int64(7), (*int64)(nil)).
		Return(domain.RulesFromCalc(rentalcalc.DefaultRules(), 0), domain.RulesScopeDefault, nil)
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:    10,
		OrderID:   "ord-1001",
		ItemID:    7,
		StartDate: friday,
		EndDate:   sunday,
		Quantity:  2,
		Notes:     ptr.Ptr("deliver to the hall entrance"),
	}
}

func created(_ context.Context, b *domain.Booking) *domain.Booking {
	b.ID = 501
	b.CreatedAt = now
	b.UpdatedAt = now
	return b
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture().withItem(3)
	f.repo.On("GetOverlapping", mock.Anything, int64(7), friday, sunday).
		Return([]*domain.Booking{{ItemID: 7, StartDate: friday, EndDate: sunday, Quantity: 1, Status: domain.StatusConfirmed}}, nil)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending &&
			b.OrderID == "ord-1001" &&
			b.Quantity == 2 &&
			b.RentalDays == 2 &&
			b.Total.Equal(decimal.RequireFromString("216")) &&
			b.Deposit.Equal(decimal.RequireFromString("54"))
	})).Return(created, nil)
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.BookingEvent) bool {
		return e.Type == domain.EventBookingCreated && e.BookingID == 501 && e.Total == "216.00" && e.StartDate == "2026-10-23"
	})).Return(nil)
	f.metrics.On("ObserveBookingCreated").Return()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(501), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Brass candelabra", resp.ItemName)
	assert.Equal(t, "180.00", rentalcalc.FormatMoney(resp.Subtotal))
	assert.Equal(t, "36.00", rentalcalc.FormatMoney(resp.Tax))
	assert.Equal(t, 1, f.tx.calls)
	f.repo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestUseCase_Execute_PublishFailureKeepsBooking(t *testing.T) {
	f := newFixture().withItem(1)
	f.repo.On("GetOverlapping", mock.Anything, int64(7), friday, sunday).Return([]*domain.Booking{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))
	f.metrics.On("ObserveBookingCreated").Return()

	req := validRequest()
	req.Quantity = 1
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(501), resp.ID)
}

func TestUseCase_Execute_Unavailable(t *testing.T) {
	t.Run("All copies booked", func(t *testing.T) {
		f := newFixture().withItem(2)
		f.repo.On("GetOverlapping", mock.Anything, int64(7), friday, sunday).
			Return([]*domain.Booking{{ItemID: 7, StartDate: friday, EndDate: sunday.AddDate(0, 0, 7), Quantity: 1, Status: domain.StatusPending}}, nil)
		f.metrics.On("ObserveBookingRejected", "unavailable").Return()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, rentalcalc.ErrUnavailable)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("Touching booking does not block", func(t *testing.T) {
		f := newFixture().withItem(1)
		// Бронь с возвратом в день выдачи не пересекается
		f.repo.On("GetOverlapping", mock.Anything, int64(7), friday, sunday).
			Return([]*domain.Booking{{ItemID: 7, StartDate: friday.AddDate(0, 0, -5), EndDate: friday, Quantity: 1, Status: domain.StatusConfirmed}}, nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(created, nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
		f.metrics.On("ObserveBookingCreated").Return()

		req := validRequest()
		req.Quantity = 1
		_, err := f.uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *Request)
		wantErr    error
		wantReason string
	}{
		{"Missing order", func(r *Request) { r.OrderID = " " }, ErrInvalidInput, "invalid_input"},
		{"Order id too long", func(r *Request) { r.OrderID = strings.Repeat("x", domain.MaxOrderIDLength+1) }, ErrInvalidInput, "invalid_input"},
		{"Zero quantity", func(r *Request) { r.Quantity = 0 }, ErrInvalidInput, "invalid_input"},
		{"Notes too long", func(r *Request) { r.Notes = ptr.Ptr(strings.Repeat("n", domain.MaxNotesLength+1)) }, ErrInvalidInput, "invalid_input"},
		{"Thursday pickup", func(r *Request) { r.StartDate = friday.AddDate(0, 0, -1) }, rentalcalc.ErrInvalidPickupWeekday, "validation"},
		{"Monday return", func(r *Request) { r.EndDate = sunday.AddDate(0, 0, 1) }, rentalcalc.ErrInvalidReturnWeekday, "validation"},
		{"Past pickup", func(r *Request) { r.StartDate = friday.AddDate(0, 0, -7) }, rentalcalc.ErrStartDateInPast, "validation"},
		{"Return on pickup day", func(r *Request) { r.EndDate = friday }, rentalcalc.ErrEndNotAfterStart, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture().withItem(1)
			f.metrics.On("ObserveBookingRejected", mock.Anything).Return()

			req := validRequest()
			tt.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.tx.calls)
			f.metrics.AssertCalled(t, "ObserveBookingRejected", tt.wantReason)
		})
	}
}

func TestUseCase_Execute_CatalogAndRules(t *testing.T) {
	t.Run("Item not found", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetItem", mock.Anything, int64(7)).Return(nil, catalogservice.ErrItemNotFound)
		f.metrics.On("ObserveBookingRejected", "not_found").Return()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("Item not rentable", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetItem", mock.Anything, int64(7)).Return(&catalogservice.Item{ID: 7, DailyRate: decimal.NewFromInt(10)}, nil)
		f.metrics.On("ObserveBookingRejected", "validation").Return()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, rentalcalc.ErrItemNotRentable)
		f.rules.AssertNotCalled(t, "GetEffective", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Advance limit", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetItem", mock.Anything, int64(7)).Return(&catalogservice.Item{ID: 7, DailyRate: decimal.NewFromInt(10), IsRentable: true}, nil)
		f.rules.On("GetEffective", mock.Anything, int64(7), (*int64)(nil)).
			Return(domain.RulesFromCalc(rentalcalc.DefaultRules(), 2), domain.RulesScopeGlobal, nil)
		f.metrics.On("ObserveBookingRejected", "too_far").Return()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
		f.metrics.AssertExpectations(t)
	})

	t.Run("Catalog failure", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetItem", mock.Anything, int64(7)).Return(nil, catalogservice.ErrInternal)
		f.metrics.On("ObserveBookingRejected", "internal").Return()

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestUseCase_Execute_DuplicateOrderLine(t *testing.T) {
	f := newFixture().withItem(5)
	f.repo.On("GetOverlapping", mock.Anything, int64(7), friday, sunday).Return([]*domain.Booking{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil, bookingRepo.ErrDuplicateOrderLine)
	f.metrics.On("ObserveBookingRejected", "duplicate").Return()

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDuplicateOrderLine)
	f.metrics.AssertExpectations(t)
}
