package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/playcredits/internal/catalog"
	"github.com/osse101/playcredits/internal/database"
	"github.com/osse101/playcredits/internal/handler"
	"github.com/osse101/playcredits/internal/leaderboard"
	"github.com/osse101/playcredits/internal/ledger"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/metrics"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	// MaxRequestsPerWindow overrides the per-IP rate limit. Zero keeps the default.
	MaxRequestsPerWindow int
}

// Services are the application services routed by the server
type Services struct {
	DB          database.Pool
	Catalog     catalog.Service
	Ledger      ledger.Service
	Leaderboard leaderboard.Service
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	r := NewRouter(opts, svc)
	return &Server{
		router: r,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
			WriteTimeout:      WriteTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter builds the chi router with middleware and all routes
func NewRouter(opts Options, svc Services) chi.Router {
	r := chi.NewRouter()
	guard := NewAbuseGuard(opts.MaxRequestsPerWindow)
	clients := NewClientIP(opts.TrustedProxies)

	// Outermost first
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(RateLimitMiddleware(clients, guard))
	r.Use(AuthMiddleware(opts.APIKey, clients, guard))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.DB))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())
	r.Get(SwaggerPathPrefix+"*", httpSwagger.WrapHandler)

	ledgerHandler := handler.NewLedgerHandler(svc.Ledger)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog, svc.Ledger)
	leaderboardHandler := handler.NewLeaderboardHandler(svc.Leaderboard)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/sessions", ledgerHandler.HandleLogSession)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/balance", ledgerHandler.HandleGetBalance)
			r.Get("/sessions", ledgerHandler.HandleListSessions)
		})

		r.Get("/games", catalogHandler.HandleListGames)
		r.Get("/games/{gameID}", catalogHandler.HandleGetGame)

		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/", leaderboardHandler.HandleGetLeaderboard)
			r.Get("/periods", leaderboardHandler.HandleListPeriods)
			r.Get("/periods/{periodID}/placements", leaderboardHandler.HandleGetPlacements)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/games", catalogHandler.HandleCreateGame)
			r.Put("/games/{gameID}/rates", catalogHandler.HandleSetRates)
			r.Post("/bonuses", ledgerHandler.HandleGrantBonus)
			r.Post("/balances/{userID}/refresh", ledgerHandler.HandleRefreshBalance)
			r.Post("/recalculate", ledgerHandler.HandleRecalculate)

			r.Route("/leaderboard", func(r chi.Router) {
				r.Post("/close", leaderboardHandler.HandleCloseAndSnapshot)
				r.Post("/periods/{periodID}/snapshot", leaderboardHandler.HandleRecordSnapshot)
				r.Get("/periods/{periodID}/diff", leaderboardHandler.HandleSnapshotDiff)
			})
		})
	})

	return r
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func isQuietPath(path string) bool {
	for _, p := range quietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// loggingMiddleware assigns a request id, echoes it in X-Request-ID and logs
// start and completion with secrets redacted
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitized[k] = []string{RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logger.Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
