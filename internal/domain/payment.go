package domain

import "strings"

// PaymentMethod is a saved card. Only the masked number is kept.
type PaymentMethod struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Brand      string `json:"brand"`
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	IsDefault  bool   `json:"isDefault"`
}

// Card types.
const (
	CardCredit = "credit"
	CardDebit  = "debit"
)

// MaskCardNumber keeps the last four digits: "•••• •••• •••• 1234".
func MaskCardNumber(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return "•••• •••• •••• " + digits
}

// CardBrand guesses the network from the leading digits.
func CardBrand(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	switch {
	case strings.HasPrefix(digits, "4"):
		return "visa"
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5',
		strings.HasPrefix(digits, "22"), strings.HasPrefix(digits, "27"):
		return "mastercard"
	case strings.HasPrefix(digits, "6"):
		return "discover"
	default:
		return "card"
	}
}

// AddPaymentMethod appends m. The first card, or one marked default, becomes
// the only default.
func AddPaymentMethod(methods []PaymentMethod, m PaymentMethod) []PaymentMethod {
	out := make([]PaymentMethod, 0, len(methods)+1)
	for _, existing := range methods {
		if m.IsDefault {
			existing.IsDefault = false
		}
		out = append(out, existing)
	}
	if len(out) == 0 {
		m.IsDefault = true
	}
	return append(out, m)
}

// RemovePaymentMethod drops id. If it was the default, the first remaining card is promoted.
func RemovePaymentMethod(methods []PaymentMethod, id string) ([]PaymentMethod, bool) {
	out := make([]PaymentMethod, 0, len(methods))
	removed, wasDefault := false, false
	for _, m := range methods {
		if m.ID == id {
			removed, wasDefault = true, m.IsDefault
			continue
		}
		out = append(out, m)
	}
	if wasDefault && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out, removed
}

// SetDefaultPaymentMethod marks id as the only default.
func SetDefaultPaymentMethod(methods []PaymentMethod, id string) ([]PaymentMethod, bool) {
	found := false
	out := make([]PaymentMethod, len(methods))
	for i, m := range methods {
		m.IsDefault = m.ID == id
		found = found || m.IsDefault
		out[i] = m
	}
	if !found {
		return methods, false
	}
	return out, true
}
