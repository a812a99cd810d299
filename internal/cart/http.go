package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"EcoStore/internal/auth"
	"EcoStore/internal/catalog"
	"EcoStore/internal/kv"
	"EcoStore/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20

	// saveAttempts bounds the read-mutate-save retry loop on revision
	// conflicts from concurrent requests of the same user.
	saveAttempts = 3
)

type Server struct {
	Carts   *Store
	Catalog *catalog.Store
	Log     *zap.Logger
}

type cartResp struct {
	Cart Cart `json:"cart"`
}

func (s *Server) GetHandler() http.HandlerFunc    { return s.get }
func (s *Server) AddHandler() http.HandlerFunc    { return s.add }
func (s *Server) UpdateHandler() http.HandlerFunc { return s.update }
func (s *Server) RemoveHandler() http.HandlerFunc { return s.remove }

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	c, _, err := s.Carts.Get(r.Context(), id.UserID)
	if err != nil {
		s.Log.Error("get cart failed", zap.Error(err), zap.String("user_id", id.UserID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, cartResp{Cart: c})
}

type addReq struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	var req addReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	pid := strings.TrimSpace(req.ProductID)
	if pid == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "productId required", nil)
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity must be positive", nil)
		return
	}

	p, found, err := s.Catalog.Get(r.Context(), pid)
	if err != nil {
		s.Log.Error("get product failed", zap.Error(err), zap.String("product_id", pid))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"productId": pid})
		return
	}

	s.mutate(w, r, id.UserID, func(c *Cart) {
		c.Add(p, qty)
	})
}

type updateReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	var req updateReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	pid := strings.TrimSpace(req.ProductID)
	if pid == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "productId required", nil)
		return
	}

	s.mutate(w, r, id.UserID, func(c *Cart) {
		c.SetQuantity(pid, req.Quantity)
	})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	pid := chi.URLParam(r, "productId")

	s.mutate(w, r, id.UserID, func(c *Cart) {
		c.Remove(pid)
	})
}

// mutate runs a read-mutate-save cycle against the user's cart, retrying on
// revision conflicts.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, userID string, fn func(*Cart)) {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		c, rev, err := s.Carts.Get(r.Context(), userID)
		if err != nil {
			s.Log.Error("get cart failed", zap.Error(err), zap.String("user_id", userID))
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
			return
		}

		fn(&c)

		err = s.Carts.Save(r.Context(), userID, c, rev)
		if errors.Is(err, kv.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			s.Log.Error("save cart failed", zap.Error(err), zap.String("user_id", userID))
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
			return
		}

		kit.WriteJSON(w, http.StatusOK, cartResp{Cart: c})
		return
	}

	kit.WriteError(w, r, http.StatusConflict, "cart modified concurrently, retry", nil)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
