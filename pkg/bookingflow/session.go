// Package bookingflow drives a single booking attempt from date selection to
// submission. Each date change revalidates the window from scratch and
// invalidates any availability check still in flight.
package bookingflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// State of a booking attempt.
type State int

const (
	StateEmpty State = iota
	StateStartSelected
	StateWindowComplete
	StateAvailabilityPending
	StateAvailable
	StateUnavailable
	StateAvailabilityUnknown
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateStartSelected:
		return "start_selected"
	case StateWindowComplete:
		return "window_complete"
	case StateAvailabilityPending:
		return "availability_pending"
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	default:
		return "availability_unknown"
	}
}

var (
	// ErrWindowIncomplete is returned when a check is requested without a valid window.
	ErrWindowIncomplete = errors.New("bookingflow: booking window is not complete")

	// ErrStaleCheck is returned when the dates changed while the check was running.
	ErrStaleCheck = errors.New("bookingflow: availability result is stale")
)

// AvailabilityChecker answers whether quantity units of an item are free for the window.
// A *rentalcalc.ValidationError means the service rejected the window; any
// other error means the answer is unknown, not that the item is taken.
type AvailabilityChecker interface {
	Check(ctx context.Context, itemID int64, window rentalcalc.BookingWindow, quantity int) (bool, error)
}

// TimeProvider returns the current time.
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

// Snapshot is a consistent copy of the session fields.
type Snapshot struct {
	State     State
	StartDate time.Time
	EndDate   time.Time
	Window    *rentalcalc.BookingWindow
	Quote     *rentalcalc.BookingQuote
	Err       error // last validation or check failure
}

// Session holds one booking attempt. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	item     rentalcalc.RentalItem
	quantity int
	rules    rentalcalc.Rules
	checker  AvailabilityChecker
	timeout  time.Duration
	clock    TimeProvider

	state      State
	start      time.Time
	end        time.Time
	window     *rentalcalc.BookingWindow
	quote      *rentalcalc.BookingQuote
	lastErr    error
	generation uint64
	cancel     context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithCheckTimeout bounds every availability check. Zero disables the bound.
func WithCheckTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithTimeProvider replaces the wall clock.
func WithTimeProvider(tp TimeProvider) Option {
	return func(s *Session) { s.clock = tp }
}

// NewSession starts an empty attempt for item.
func NewSession(item rentalcalc.RentalItem, quantity int, rules rentalcalc.Rules, checker AvailabilityChecker, opts ...Option) *Session {
	s := &Session{
		item:     item,
		quantity: quantity,
		rules:    rules,
		checker:  checker,
		clock:    realTimeProvider{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetStart selects the pickup date. When the rules can derive a default end
// date it is filled in, otherwise the end date is cleared.
func (s *Session) SetStart(start time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.start = rentalcalc.DateOnly(start)
	if end, ok := s.rules.DeriveDefaultEndDate(s.start); ok {
		s.end = end
	} else {
		s.end = time.Time{}
	}
	s.revalidateLocked()
	return s.snapshotLocked()
}

// SetEnd selects the return date.
func (s *Session) SetEnd(end time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.end = rentalcalc.DateOnly(end)
	s.revalidateLocked()
	return s.snapshotLocked()
}

// SetQuantity changes the number of units requested.
func (s *Session) SetQuantity(quantity int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quantity = quantity
	s.revalidateLocked()
	return s.snapshotLocked()
}

// Reset clears the attempt.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.start = time.Time{}
	s.end = time.Time{}
	s.revalidateLocked()
	return s.snapshotLocked()
}

// CheckAvailability asks the checker about the current window. It blocks
// until the checker returns. If the dates change meanwhile the result is
// dropped and ErrStaleCheck is returned; the session keeps the newer state.
func (s *Session) CheckAvailability(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.window == nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrWindowIncomplete
	}

	s.cancelInFlightLocked()
	s.generation++
	gen := s.generation
	window := *s.window
	quantity := s.quantity

	var (
		checkCtx context.Context
		cancel   context.CancelFunc
	)
	if s.timeout > 0 {
		checkCtx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		checkCtx, cancel = context.WithCancel(ctx)
	}
	s.cancel = cancel
	s.state = StateAvailabilityPending
	s.lastErr = nil
	s.mu.Unlock()

	free, err := s.checker.Check(checkCtx, s.item.ID, window, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		cancel()
		return s.snapshotLocked(), ErrStaleCheck
	}
	cancel()
	s.cancel = nil

	switch {
	case rentalcalc.IsValidationError(err):
		// The service rejected the window; it is no longer bookable as entered.
		s.window = nil
		s.quote = nil
		s.state = StateStartSelected
		s.lastErr = err
	case err != nil:
		s.state = StateAvailabilityUnknown
		s.lastErr = errors.Join(rentalcalc.ErrAvailabilityUnknown, err)
	case free:
		s.state = StateAvailable
	default:
		s.state = StateUnavailable
		s.lastErr = rentalcalc.ErrUnavailable
	}
	return s.snapshotLocked(), s.lastErr
}

// CanSubmit reports whether the attempt may be turned into an order line.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAvailable
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// revalidateLocked recomputes window and quote from the raw dates and
// invalidates any pending check.
func (s *Session) revalidateLocked() {
	s.cancelInFlightLocked()
	s.generation++
	s.window = nil
	s.quote = nil
	s.lastErr = nil

	if s.start.IsZero() {
		s.state = StateEmpty
		return
	}

	s.state = StateStartSelected
	if err := rentalcalc.ValidateItem(s.item); err != nil {
		s.lastErr = err
		return
	}
	if s.end.IsZero() {
		return
	}

	window, err := s.rules.ValidateWindow(s.start, s.end, s.clock.Now())
	if err != nil {
		s.lastErr = err
		return
	}

	quote, err := s.rules.ComputeQuote(window, s.item.DailyRate, s.quantity)
	if err != nil {
		s.lastErr = err
		return
	}

	s.window = &window
	s.quote = &quote
	s.state = StateWindowComplete
}

func (s *Session) cancelInFlightLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     s.state,
		StartDate: s.start,
		EndDate:   s.end,
		Err:       s.lastErr,
	}
	if s.window != nil {
		w := *s.window
		snap.Window = &w
	}
	if s.quote != nil {
		q := *s.quote
		snap.Quote = &q
	}
	return snap
}

// TotalDue is the amount shown before submission: total plus refundable deposit.
func (snap Snapshot) TotalDue() decimal.Decimal {
	if snap.Quote == nil {
		return decimal.Zero
	}
	return snap.Quote.Total.Add(snap.Quote.Deposit)
}
