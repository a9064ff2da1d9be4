package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/lifecycle"
	"travelbook/internal/pkg/authz"
	"travelbook/internal/pkg/voucher"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Retries on a voucher unique-index collision before giving up.
const maxVoucherAttempts = 3

type Service struct {
	bookings   BookingRepository
	properties PropertyReader
	isUnique   func(error) bool
}

// NewService wires the booking lifecycle engine. uniqueViolation
// recognizes a duplicate-voucher write error; pass nil when the store
// cannot report one.
func NewService(bookings BookingRepository, properties PropertyReader, uniqueViolation func(error) bool) *Service {
	if uniqueViolation == nil {
		uniqueViolation = func(error) bool { return false }
	}
	return &Service{
		bookings:   bookings,
		properties: properties,
		isUnique:   uniqueViolation,
	}
}

func (s *Service) Create(ctx context.Context, actorID string, role domain.Role, req CreateBookingRequest) (*domain.Booking, error) {
	if err := authz.Authorize(role, authz.OpCreateBooking, false); err != nil {
		return nil, err
	}

	checkIn, err := time.ParseInLocation(dateLayout, req.CheckIn, time.UTC)
	if err != nil {
		return nil, ErrValidation
	}
	checkOut, err := time.ParseInLocation(dateLayout, req.CheckOut, time.UTC)
	if err != nil {
		return nil, ErrValidation
	}

	if !checkIn.Before(checkOut) {
		return nil, ErrValidation
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return nil, ErrValidation
	}
	if req.Guests < 1 {
		return nil, ErrValidation
	}
	if req.TotalAmount < 0 {
		return nil, ErrValidation
	}

	if _, err := s.properties.GetByID(ctx, req.PropertyID); err != nil {
		return nil, mapLookupErr(err)
	}
	room, err := s.properties.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if room.PropertyID != req.PropertyID {
		return nil, ErrValidation
	}
	if room.MaxOccupancy > 0 && req.Guests > room.MaxOccupancy {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		ID:            uuid.NewString(),
		UserID:        actorID,
		PropertyID:    req.PropertyID,
		RoomID:        req.RoomID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        req.Guests,
		TotalAmount:   req.TotalAmount,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
		Notes:         req.Notes,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the caller's own bookings; staff roles see all of them.
func (s *Service) List(ctx context.Context, actorID string, role domain.Role) ([]domain.Booking, error) {
	if authz.Authorize(role, authz.OpListAllBookings, false) == nil {
		return s.bookings.ListAll(ctx)
	}
	return s.bookings.ListByUser(ctx, actorID)
}

func (s *Service) Get(ctx context.Context, id, actorID string, role domain.Role) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if err := authz.Authorize(role, authz.OpViewBooking, b.UserID == actorID); err != nil {
		return nil, err
	}
	return b, nil
}

// Confirm moves pending -> confirmed. Staff only.
func (s *Service) Confirm(ctx context.Context, id string, role domain.Role) (*domain.Booking, error) {
	if err := authz.Authorize(role, authz.OpConfirmBooking, false); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}

	next, ok := lifecycle.NextStatus(b.Status, lifecycle.OpConfirm)
	if !ok {
		return nil, ErrInvalidTransition
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, id, b.Status, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		// A concurrent writer changed the row between read and write.
		return nil, ErrInvalidTransition
	}
	return s.bookings.GetByID(ctx, id)
}

// Pay flips the payment sub-state to paid and assigns the voucher code.
// Only the owning traveler may pay, and only a confirmed booking.
func (s *Service) Pay(ctx context.Context, id, actorID string, role domain.Role) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if err := authz.Authorize(role, authz.OpPayBooking, b.UserID == actorID); err != nil {
		return nil, err
	}

	if _, ok := lifecycle.NextPayment(b.PaymentStatus, lifecycle.OpPay); !ok {
		return nil, ErrInvalidTransition
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidTransition
	}

	for attempt := 0; attempt < maxVoucherAttempts; attempt++ {
		code, err := voucher.Generate()
		if err != nil {
			return nil, err
		}

		moved, err := s.bookings.MarkPaidIf(ctx, id, code)
		if err != nil {
			if s.isUnique(err) {
				continue
			}
			return nil, err
		}
		if !moved {
			return nil, ErrInvalidTransition
		}
		return s.bookings.GetByID(ctx, id)
	}
	return nil, fmt.Errorf("voucher code collision after %d attempts", maxVoucherAttempts)
}

// Cancel moves pending/confirmed -> cancelled for the owning traveler
// or staff. A paid booking cannot be cancelled; Refund is the only path
// out once money moved.
func (s *Service) Cancel(ctx context.Context, id, actorID string, role domain.Role) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if err := authz.Authorize(role, authz.OpCancelBooking, b.UserID == actorID); err != nil {
		return nil, err
	}

	if b.PaymentStatus == domain.PaymentPaid {
		return nil, ErrInvalidTransition
	}
	if _, ok := lifecycle.NextStatus(b.Status, lifecycle.OpCancel); !ok {
		return nil, ErrInvalidTransition
	}

	moved, err := s.bookings.CancelIf(ctx, id, b.Status)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidTransition
	}
	return s.bookings.GetByID(ctx, id)
}

// Refund reconciles a paid booking: payment paid -> refunded and status
// -> cancelled in one write. Staff only.
func (s *Service) Refund(ctx context.Context, id string, role domain.Role) (*domain.Booking, error) {
	if err := authz.Authorize(role, authz.OpRefundBooking, false); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}

	if _, ok := lifecycle.NextPayment(b.PaymentStatus, lifecycle.OpRefund); !ok {
		return nil, ErrInvalidTransition
	}
	if _, ok := lifecycle.NextStatus(b.Status, lifecycle.OpRefund); !ok {
		return nil, ErrInvalidTransition
	}

	moved, err := s.bookings.RefundIf(ctx, id)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidTransition
	}
	return s.bookings.GetByID(ctx, id)
}

// Complete moves confirmed -> completed. System-internal, reached
// through the internal-token endpoint (post-stay job), never by end
// users.
func (s *Service) Complete(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}

	next, ok := lifecycle.NextStatus(b.Status, lifecycle.OpComplete)
	if !ok {
		return nil, ErrInvalidTransition
	}

	moved, err := s.bookings.UpdateStatusIf(ctx, id, b.Status, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidTransition
	}
	return s.bookings.GetByID(ctx, id)
}

// FailPayment records a gateway decline. System-internal. Terminal
// bookings are out of reach: a decline arriving after cancellation or
// completion must not disturb the settled payment state.
func (s *Service) FailPayment(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err)
	}

	if b.Status.Terminal() {
		return nil, ErrInvalidTransition
	}
	if _, ok := lifecycle.NextPayment(b.PaymentStatus, lifecycle.OpFailPay); !ok {
		return nil, ErrInvalidTransition
	}

	moved, err := s.bookings.MarkPaymentFailedIf(ctx, id)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidTransition
	}
	return s.bookings.GetByID(ctx, id)
}

func mapLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
