package domain

import "time"

// BillingDetails holds payment figures for one enquiry, in minor currency
// units (paise). Balance is always derived, never stored.
type BillingDetails struct {
	EnquiryID string
	Total     int64
	Paid      int64
	Discount  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance returns total minus paid minus discount, floored at zero.
func (b BillingDetails) Balance() int64 {
	balance := b.Total - b.Paid - b.Discount
	if balance < 0 {
		return 0
	}
	return balance
}
