package dto

// CreateReservationRequest carries the booking form.
type CreateReservationRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerPhone string `json:"customerPhone" binding:"required"`
	NumPeople     int    `json:"numPeople" binding:"required,min=1"`
	TotalPrice    string `json:"totalPrice" binding:"required"`
	AdvancePct    string `json:"advancePct"`
	PaymentType   string `json:"paymentType" binding:"required"`
	PaymentStatus string `json:"paymentStatus" binding:"required"`
	BranchID      string `json:"branchId" binding:"required"`
	StaffID       string `json:"staffId" binding:"required"`
	Date          string `json:"reservationDate" binding:"required"` // YYYY-MM-DD
	Time          string `json:"reservationTime" binding:"required"` // HH:MM
	Notes         string `json:"notes"`
}

// UpdateReservationRequest overwrites mutable fields.
// Date and time must be supplied together when either changes.
type UpdateReservationRequest struct {
	CustomerName  *string `json:"customerName"`
	CustomerPhone *string `json:"customerPhone"`
	NumPeople     *int    `json:"numPeople"`
	TotalPrice    *string `json:"totalPrice"`
	AdvancePct    *string `json:"advancePct"`
	PaymentType   *string `json:"paymentType"`
	PaymentStatus *string `json:"paymentStatus"`
	StaffID       *string `json:"staffId"`
	Date          *string `json:"reservationDate"`
	Time          *string `json:"reservationTime"`
	Notes         *string `json:"notes"`
}

// CancelReservationRequest selects the cancellation mode.
type CancelReservationRequest struct {
	WithRefund bool `json:"withRefund"`
}
