package booking

type CreateBookingRequest struct {
	PropertyID  string  `json:"property_id" validate:"required"`
	RoomID      string  `json:"room_id" validate:"required"`
	CheckIn     string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut    string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests      int     `json:"guests" validate:"required,min=1"`
	TotalAmount float64 `json:"total_amount" validate:"min=0"`
	Notes       string  `json:"notes" validate:"max=2000"`
}
