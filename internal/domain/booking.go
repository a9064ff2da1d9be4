package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Terminal reports whether no further status transition is permitted.
// Payment sub-state transitions other than refund are also frozen once
// the booking is terminal.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

type Booking struct {
	ID            string        `json:"id" gorm:"column:id;primaryKey"`
	UserID        string        `json:"user_id" gorm:"column:user_id;index"`
	PropertyID    string        `json:"property_id" gorm:"column:property_id;index"`
	RoomID        string        `json:"room_id" gorm:"column:room_id"`
	CheckIn       time.Time     `json:"check_in" gorm:"column:check_in"`
	CheckOut      time.Time     `json:"check_out" gorm:"column:check_out"`
	Guests        int           `json:"guests" gorm:"column:guests"`
	TotalAmount   float64       `json:"total_amount" gorm:"column:total_amount"`
	Status        BookingStatus `json:"status" gorm:"column:status"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"column:payment_status"`
	VoucherCode   string        `json:"voucher_code,omitempty" gorm:"column:voucher_code;uniqueIndex:idx_bookings_voucher,where:voucher_code <> ''"`
	Notes         string        `json:"notes,omitempty" gorm:"column:notes;type:text"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
}

func (Booking) TableName() string { return "bookings" }
