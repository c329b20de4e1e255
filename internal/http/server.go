package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/phone-engine/internal/action"
	"github.com/jmehdipour/phone-engine/internal/config"
	"github.com/jmehdipour/phone-engine/internal/http/middleware"
	"github.com/jmehdipour/phone-engine/internal/logger"
	"github.com/jmehdipour/phone-engine/internal/metrics"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/jmehdipour/phone-engine/internal/repository"
	"github.com/jmehdipour/phone-engine/internal/service/contact"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct{ e *echo.Echo }

// Deps are the collaborators behind the authenticated routes.
type Deps struct {
	Clients  repository.ClientsRepository
	Recorder ActionRecorder
	Reports  repository.CHActionsRepository
	Redis    *redis.Client
}

func NewServer(cfg config.Config, engine *phone.Engine, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client) *Server {
	// repos (MySQL)
	clientsRepo := repository.NewClientsRepository(mysqlDB)
	actionsRepo := repository.NewActionsRepository(mysqlDB)
	outboxRepo := repository.NewOutboxRepository(mysqlDB)

	// services
	dispatch := action.NewDispatcher(engine, action.LinkPlatform{}, cfg.Phone.WhatsAppBaseURL)
	contactSvc := contact.New(mysqlDB, actionsRepo, outboxRepo, engine, dispatch, cfg.Kafka.Topic)

	return New(cfg, engine, Deps{
		Clients:  clientsRepo,
		Recorder: contactSvc,
		Reports:  repository.NewCHActionsRepository(clickhouseDB),
		Redis:    rds,
	})
}

// New wires routes over explicit dependencies.
func New(cfg config.Config, engine *phone.Engine, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	authMW := middleware.APIKeyMiddleware(deps.Clients)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          deps.Redis,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:client:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	v1 := e.Group("/v1", authMW, rlMW)

	ph := phoneHandlers{engine: engine}
	p := v1.Group("/phone")
	p.POST("/process", ph.process)
	p.GET("/format", ph.format)
	p.GET("/full", ph.full)
	p.GET("/home-valid", ph.homeValid)
	p.GET("/mask", ph.mask)
	p.GET("/carrier", ph.carrier)
	p.POST("/actions", actionHandler(deps.Recorder))

	v1.GET("/reports/actions", listActionsHandler(deps.Reports, engine))

	return &Server{e: e}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }

func (s *Server) Start(addr string) error {
	logger.Named("http").Info("listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
