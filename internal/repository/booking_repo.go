package repository

import (
	"context"
	"errors"
	"time"

	"travelbook/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&b)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out)
	return out, tx.Error
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	tx := r.db.WithContext(ctx).Order("created_at DESC").Find(&out)
	return out, tx.Error
}

// UpdateStatusIf moves status from -> to only when the row still holds
// the expected status. A zero count means a concurrent writer got there
// first; the caller re-reads and reports the conflict.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	return tx.RowsAffected > 0, tx.Error
}

// CancelIf cancels from the expected status, but never a paid booking:
// refund is the only path out once payment succeeded.
func (r *BookingRepository) CancelIf(ctx context.Context, id string, from domain.BookingStatus) (bool, error) {
	now := time.Now()
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ? AND payment_status IN ?", id, from,
			[]domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed}).
		Updates(map[string]any{
			"status":       domain.BookingCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		})
	return tx.RowsAffected > 0, tx.Error
}

// MarkPaidIf flips the payment sub-state to paid and assigns the
// voucher in the same write, so a half-applied payment cannot be
// observed. The voucher column is unique; IsUniqueViolation tells the
// caller to retry with a fresh code.
func (r *BookingRepository) MarkPaidIf(ctx context.Context, id, voucherCode string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ? AND payment_status IN ?", id, domain.BookingConfirmed,
			[]domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed}).
		Updates(map[string]any{
			"payment_status": domain.PaymentPaid,
			"voucher_code":   voucherCode,
			"updated_at":     time.Now(),
		})
	return tx.RowsAffected > 0, tx.Error
}

// RefundIf cancels a paid booking and marks the payment refunded in one
// write. Completed bookings are terminal and stay out of reach.
func (r *BookingRepository) RefundIf(ctx context.Context, id string) (bool, error) {
	now := time.Now()
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ? AND payment_status = ?", id, domain.BookingConfirmed, domain.PaymentPaid).
		Updates(map[string]any{
			"status":         domain.BookingCancelled,
			"payment_status": domain.PaymentRefunded,
			"cancelled_at":   now,
			"updated_at":     now,
		})
	return tx.RowsAffected > 0, tx.Error
}

// MarkPaymentFailedIf records a gateway decline. The status condition
// keeps a decline that races a cancellation or completion from touching
// the settled row.
func (r *BookingRepository) MarkPaymentFailedIf(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND payment_status = ? AND status IN ?", id, domain.PaymentPending,
			[]domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}).
		Updates(map[string]any{
			"payment_status": domain.PaymentFailed,
			"updated_at":     time.Now(),
		})
	return tx.RowsAffected > 0, tx.Error
}

type statusCountRow struct {
	Status string
	Count  int64
}

// CountByStatus aggregates bookings by status, scoped to one owner when
// userID is non-empty.
func (r *BookingRepository) CountByStatus(ctx context.Context, userID string) (map[domain.BookingStatus]int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var rows []statusCountRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.BookingStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation (voucher collision on concurrent Pay calls).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
