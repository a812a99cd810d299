package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"EcoStore/internal/auth"
	"EcoStore/internal/cart"
	"EcoStore/internal/catalog"
	"EcoStore/internal/kv"
	"EcoStore/internal/order"
	"EcoStore/pkg/kit"
)

type Deps struct {
	Log   *zap.Logger
	Store kv.Store
	Users auth.UserStore

	JWTSecret string

	Registry       *prometheus.Registry
	MetricsEnabled bool
	MetricsToken   string
}

const (
	loginLimitPerMin  = 5
	signupLimitPerMin = 3
	limitWindow       = 60 * time.Second

	readyTimeout = 1 * time.Second
)

// NewHandler wires the whole storefront API into one router.
func NewHandler(deps Deps) http.Handler {
	jwt := auth.NewTokenMaker(deps.JWTSecret)

	authSrv := &auth.Server{Log: deps.Log, Store: deps.Users, JWT: jwt}
	catalogSrv := &catalog.Server{Store: catalog.NewStore(deps.Store), Log: deps.Log}
	cartSrv := &cart.Server{
		Carts:   cart.NewStore(deps.Store),
		Catalog: catalogSrv.Store,
		Log:     deps.Log,
	}
	orderSrv := &order.Server{
		Orders: order.NewStore(deps.Store),
		Carts:  cartSrv.Carts,
		Log:    deps.Log,
	}

	r := chi.NewRouter()
	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps))

	setupAuthRoutes(r, authSrv, jwt)
	setupStoreRoutes(r, catalogSrv, cartSrv, orderSrv, jwt)

	return r
}

func setupMiddleware(r *chi.Mux, deps Deps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps Deps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(kit.RoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupAuthRoutes(r *chi.Mux, s *auth.Server, jwt *auth.TokenMaker) {
	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	signupLimiter := kit.NewIPRateLimiter(signupLimitPerMin, limitWindow)

	r.With(signupLimiter.Middleware).Post("/signup", s.SignupHandler())
	r.With(loginLimiter.Middleware).Post("/login", s.LoginHandler())
	r.With(auth.RequireUser(jwt)).Get("/whoami", s.WhoAmIHandler())
}

func setupStoreRoutes(r *chi.Mux, cat *catalog.Server, crt *cart.Server, ord *order.Server, jwt *auth.TokenMaker) {
	r.Get("/products", cat.ListHandler())
	r.Get("/products/{id}", cat.GetHandler())

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireUser(jwt))

		pr.Get("/cart", crt.GetHandler())
		pr.Post("/cart/add", crt.AddHandler())
		pr.Put("/cart/update", crt.UpdateHandler())
		pr.Delete("/cart/remove/{productId}", crt.RemoveHandler())

		pr.Post("/checkout", ord.CheckoutHandler())
		pr.Get("/orders", ord.ListHandler())
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(auth.RequireUser(jwt))
		ar.Use(auth.RequireAdmin)

		ar.Post("/init", cat.SeedHandler())
		ar.Post("/products", cat.CreateHandler())
		ar.Put("/products/{id}", cat.UpdateHandler())
		ar.Delete("/products/{id}", cat.DeleteHandler())
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := deps.Store.Ping(ctx); err != nil {
			deps.Log.Warn("readyz failed: kv", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		if err := deps.Users.Ping(ctx); err != nil {
			deps.Log.Warn("readyz failed: users", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
