package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/service"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
)

// CheckoutHandler runs the two checkout steps.
type CheckoutHandler struct {
	logger *slog.Logger
}

func NewCheckoutHandler(logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{logger: logger}
}

// PaymentRequest is the card form. The CVV is checked and dropped.
type PaymentRequest struct {
	CardName   string `json:"cardName" validate:"required,max=100"`
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`
}

// Get handles GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := clientFrom(r).Checkout.View()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, v)
}

// Shipping handles POST /api/v1/checkout/shipping
func (h *CheckoutHandler) Shipping(w http.ResponseWriter, r *http.Request) {
	var req domain.ShippingInfo
	if !decode(w, r, &req) {
		return
	}
	v, err := clientFrom(r).Checkout.SetShipping(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, v)
}

// Payment handles POST /api/v1/checkout/payment
func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := clientFrom(r).Checkout.PlaceOrder(r.Context(), service.Card{
		Name:   req.CardName,
		Number: req.CardNumber,
		Expiry: req.ExpiryDate,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.Unavailable("PAYMENT_ABORTED", "payment was interrupted, your cart is unchanged", err)
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, order)
}
