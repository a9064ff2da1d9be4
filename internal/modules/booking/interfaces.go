package booking

import (
	"context"

	"travelbook/internal/domain"
)

// BookingRepository defines the persistence operations the lifecycle
// engine needs. The *If writes are conditional on the expected current
// state and report whether the row was actually moved.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	UpdateStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)
	CancelIf(ctx context.Context, id string, from domain.BookingStatus) (bool, error)
	MarkPaidIf(ctx context.Context, id, voucherCode string) (bool, error)
	RefundIf(ctx context.Context, id string) (bool, error)
	MarkPaymentFailedIf(ctx context.Context, id string) (bool, error)
}

// PropertyReader resolves the property/room references on a create
// request.
type PropertyReader interface {
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)
}
