package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/service"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
)

// ProfileHandler serves the signed-in user's profile, saved cards and orders.
// Every route sits behind RequireSession.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// AddPaymentMethodRequest is a card to save.
type AddPaymentMethodRequest struct {
	Type       string `json:"type" validate:"omitempty,oneof=credit debit"`
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	CardName   string `json:"cardName" validate:"required,max=100"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	IsDefault  bool   `json:"isDefault"`
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, clientFrom(r).Session.User())
}

// Update handles PATCH /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	s := clientFrom(r).Session
	if !s.UpdateUserProfile(r.Context(), req) {
		httputil.WriteError(w, r, service.ErrNotAuthenticated, nil)
		return
	}
	httputil.WriteData(w, http.StatusOK, s.User())
}

// AddPaymentMethod handles POST /api/v1/profile/payment-methods
func (h *ProfileHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req AddPaymentMethodRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := clientFrom(r).Session.AddPaymentMethod(r.Context(), service.NewCard{
		Type:       req.Type,
		CardNumber: req.CardNumber,
		CardName:   req.CardName,
		ExpiryDate: req.ExpiryDate,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		httputil.WriteError(w, r, err, nil)
		return
	}
	httputil.WriteData(w, http.StatusCreated, m)
}

// RemovePaymentMethod handles DELETE /api/v1/profile/payment-methods/{id}
func (h *ProfileHandler) RemovePaymentMethod(w http.ResponseWriter, r *http.Request) {
	s := clientFrom(r).Session
	if err := s.RemovePaymentMethod(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, nil)
		return
	}
	httputil.WriteData(w, http.StatusOK, s.User().PaymentMethods)
}

// SetDefaultPaymentMethod handles PUT /api/v1/profile/payment-methods/{id}/default
func (h *ProfileHandler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	s := clientFrom(r).Session
	if err := s.SetDefaultPaymentMethod(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, nil)
		return
	}
	httputil.WriteData(w, http.StatusOK, s.User().PaymentMethods)
}

// Orders handles GET /api/v1/orders
func (h *ProfileHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders := clientFrom(r).Orders.List()
	if orders == nil {
		orders = []domain.Order{}
	}
	httputil.WriteData(w, http.StatusOK, orders)
}
