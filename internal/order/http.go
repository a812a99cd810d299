package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"EcoStore/internal/auth"
	"EcoStore/internal/cart"
	"EcoStore/internal/kv"
	"EcoStore/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20

	// checkoutAttempts bounds retries when a concurrent cart mutation
	// invalidates the revision the checkout read.
	checkoutAttempts = 3
)

type Server struct {
	Orders *Store
	Carts  *cart.Store
	Log    *zap.Logger
}

type checkoutReq struct {
	ShippingInfo ShippingInfo `json:"shippingInfo"`
	PaymentInfo  PaymentInfo  `json:"paymentInfo"`
}

type checkoutResp struct {
	Order   Order  `json:"order"`
	Message string `json:"message"`
}

type listResp struct {
	Orders []Order `json:"orders"`
}

func (s *Server) CheckoutHandler() http.HandlerFunc { return s.checkout }
func (s *Server) ListHandler() http.HandlerFunc     { return s.list }

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req checkoutReq
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	for attempt := 0; attempt < checkoutAttempts; attempt++ {
		c, rev, err := s.Carts.Get(r.Context(), id.UserID)
		if err != nil {
			s.Log.Error("get cart failed", zap.Error(err), zap.String("user_id", id.UserID))
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
			return
		}

		if c.Empty() {
			kit.WriteError(w, r, http.StatusBadRequest, "cart is empty", nil)
			return
		}

		o := New(id.UserID, c, req.ShippingInfo, req.PaymentInfo)

		err = s.Orders.Checkout(r.Context(), o, rev)
		if errors.Is(err, kv.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			s.Log.Error("checkout failed", zap.Error(err), zap.String("user_id", id.UserID))
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
			return
		}

		kit.WriteJSON(w, http.StatusCreated, checkoutResp{
			Order:   o,
			Message: "order placed; demo only, no payment was processed",
		})
		return
	}

	kit.WriteError(w, r, http.StatusConflict, "cart modified concurrently, retry", nil)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	orders, err := s.Orders.ListByUser(r.Context(), id.UserID)
	if err != nil {
		s.Log.Error("list orders failed", zap.Error(err), zap.String("user_id", id.UserID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, listResp{Orders: orders})
}
