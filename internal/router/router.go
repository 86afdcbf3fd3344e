package router

import (
	"net/http"
	"time"

	_ "get-a-pet/docs"
	imgmem "get-a-pet/internal/adapters/images/memory"
	mem "get-a-pet/internal/adapters/storage/memory"
	usermem "get-a-pet/internal/adapters/users/memory"
	"get-a-pet/internal/domain/pets"
	"get-a-pet/internal/middleware"
	"get-a-pet/internal/platform/logger"
	"get-a-pet/internal/platform/metrics"
	"get-a-pet/internal/platform/ratelimiter"
	"get-a-pet/internal/ports/auth"
	"get-a-pet/internal/ports/images"
	"get-a-pet/internal/ports/users"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)

	// Dependencias del core; nil => in-memory.
	PetRepo pets.Repository
	Images  images.Store
	Users   users.Directory

	Logger  logger.Logger
	Metrics *metrics.Registry

	ConcludePolicy pets.ConcludePolicy
	MaxUploadBytes int64

	// Rate limit de escrituras por usuario. RPS 0 => sin límite.
	WriteRPS   float64
	WriteBurst int

	// HealthCheck opcional (p.ej. ping a la DB).
	HealthCheck func(*http.Request) error
}

// imageServer lo implementan los stores que pueden servir sus propios archivos.
type imageServer interface {
	Handler() http.Handler
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.PetRepo == nil {
		opts.PetRepo = mem.NewPetRepo()
	}
	if opts.Images == nil {
		opts.Images = imgmem.NewStore()
	}
	if opts.Users == nil {
		opts.Users = usermem.NewDirectory()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	// AuthContext va antes de AccessLog para que el log vea el user_id.
	r.Use(middleware.AuthContext(opts.AuthVerifier, log))
	r.Use(middleware.AccessLog(log))
	r.Use(opts.Metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(req); err != nil {
				log.Warn("health check failed", map[string]any{"error": err.Error()})
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if srv, ok := opts.Images.(imageServer); ok {
		r.Handle("/images/*", http.StripPrefix("/images", srv.Handler()))
	}

	petsSvc := pets.NewService(opts.PetRepo, opts.Images, opts.Users,
		pets.WithLogger(log.With(map[string]any{"module": "pets"})),
		pets.WithMetrics(opts.Metrics),
		pets.WithConcludePolicy(opts.ConcludePolicy),
	)

	limiter := ratelimiter.New(opts.WriteRPS, opts.WriteBurst, 10*time.Minute)

	pets.RegisterRoutes(r, petsSvc, pets.RouteOptions{
		MaxUploadBytes: opts.MaxUploadBytes,
		Log:            log,
		Mutating:       []func(http.Handler) http.Handler{middleware.RateLimit(limiter)},
	})

	return r
}
