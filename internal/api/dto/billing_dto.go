package dto

import "time"

// UpdateBillingRequest carries partial figure changes in minor units.
type UpdateBillingRequest struct {
	Total    *int64 `json:"total,omitempty" validate:"omitempty,min=0"`
	Paid     *int64 `json:"paid,omitempty" validate:"omitempty,min=0"`
	Discount *int64 `json:"discount,omitempty" validate:"omitempty,min=0"`
}

// BillingResponse returns billing figures plus the derived balance.
type BillingResponse struct {
	EnquiryID string    `json:"enquiry_id"`
	Total     int64     `json:"total"`
	Paid      int64     `json:"paid"`
	Discount  int64     `json:"discount"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
