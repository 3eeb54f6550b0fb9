package router

import (
	"net/http"

	mem "pawgrammers/internal/adapters/storage/memory"
	"pawgrammers/internal/domain/pets"
	"pawgrammers/internal/middleware"
	"pawgrammers/internal/platform/logger"
	"pawgrammers/internal/ports/auth"

	_ "pawgrammers/docs" // registra la doc de swagger

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev, API abierta)

	// PetRepo: storage ya abierto (postgres/sqlite). Si es nil, in-memory.
	PetRepo pets.Repository

	Log logger.Logger

	// Registry de Prometheus. Si es nil se crea uno propio (los tests no
	// comparten el registry global).
	Registry *prometheus.Registry

	// RateLimitRPS <= 0 desactiva el rate limiting.
	RateLimitRPS   int
	RateLimitBurst int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewMetrics(reg).Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	petRepo := opts.PetRepo
	if petRepo == nil {
		petRepo = mem.NewPetRepo()
	}
	petsSvc := pets.NewService(petRepo)

	// Rutas de la API: rate limit + auth context sólo acá
	// (health/metrics quedan fuera para los probes).
	r.Group(func(api chi.Router) {
		api.Use(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Middleware)
		api.Use(middleware.AuthContext(opts.AuthVerifier, log))

		pets.RegisterRoutes(api, petsSvc, pets.RouteOptions{
			RequireAuth: opts.AuthVerifier != nil,
			Log:         log,
		})
	})

	return r
}
