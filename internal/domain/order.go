package domain

import "time"

// ShippingInfo is the first checkout step.
type ShippingInfo struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required,max=200"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"required,max=100"`
	Zip       string `json:"zip" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// ShippingFromUser prefills the form from the profile.
func ShippingFromUser(u *User) ShippingInfo {
	if u == nil {
		return ShippingInfo{}
	}
	return ShippingInfo{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Address:   u.Address,
		City:      u.City,
		State:     u.State,
		Zip:       u.Zip,
		Country:   u.Country,
		Phone:     u.Phone,
	}
}

// Totals are the checkout amounts in fils.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// ComputeTotals charges flat shipping on a non-empty cart and tax on the subtotal.
func ComputeTotals(lines []CartLine) Totals {
	t := Totals{Subtotal: Subtotal(lines)}
	if len(lines) > 0 {
		t.Shipping = ShippingFee
	}
	t.Tax = TaxOn(t.Subtotal)
	t.Total = t.Subtotal + t.Shipping + t.Tax
	return t
}

// Order is a placed checkout.
type Order struct {
	Number     string       `json:"number"`
	PlacedAt   time.Time    `json:"placedAt"`
	Status     string       `json:"status"`
	Lines      []CartLine   `json:"lines"`
	Totals     Totals       `json:"totals"`
	Shipping   ShippingInfo `json:"shipping"`
	CardLast4  string       `json:"cardLast4"`
	CardHolder string       `json:"cardHolder"`
}

const OrderStatusProcessing = "processing"
