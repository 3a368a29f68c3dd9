package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/nmorales89/accounthub/internal/accounts"
	"github.com/nmorales89/accounthub/internal/auth"
	"github.com/nmorales89/accounthub/internal/config"
	"github.com/nmorales89/accounthub/internal/http/handlers"
	"github.com/nmorales89/accounthub/internal/http/middlewares"
	"github.com/nmorales89/accounthub/internal/observability"
	"github.com/nmorales89/accounthub/internal/repo"
	"github.com/nmorales89/accounthub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, store repo.Store, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("accounthub"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())

	// wire the core

	instrumented := repo.Instrument(store, prom)

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	sessions := auth.NewSessionAuthority(instrumented)
	authorizer := auth.NewAuthorizer(tokens, sessions, instrumented)

	svc := accounts.NewService(instrumented, tokens, sessions, hasher, log)

	usersHandler := handlers.NewUsersHandler(svc)
	authMW := middlewares.NewAuthMiddleware(metered{next: authorizer, prom: prom})

	// health + metrics

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return store.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// anonymous routes, rate limited by IP

	anonLimiter := middlewares.NewRateLimiter(20, time.Minute)
	anon := r.Group("/", anonLimiter.Middleware(middlewares.KeyByIP))

	anon.POST("/register", usersHandler.Register)
	anon.POST("/login", usersHandler.Login)

	// protected routes, gated by the authorizer

	userLimiter := middlewares.NewRateLimiter(60, time.Minute)
	protected := r.Group("/user", authMW.RequireSession(), userLimiter.Middleware(middlewares.KeyByPrincipalOrIP))

	protected.GET("", usersHandler.Get)
	protected.PUT("", usersHandler.Update)
	protected.DELETE("", usersHandler.Delete)
	protected.POST("/refreshtoken", usersHandler.RefreshToken)

	return r
}

// metered counts authorizer outcomes without the authorizer knowing
// about prometheus.
type metered struct {
	next middlewares.RequestAuthorizer
	prom *observability.Prom
}

func (m metered) Authorize(ctx context.Context, header string) auth.Decision {
	d := m.next.Authorize(ctx, header)

	if d.Allowed {
		m.prom.AuthDecisions.WithLabelValues("allow").Inc()
	} else {
		m.prom.AuthDecisions.WithLabelValues("deny").Inc()
	}

	return d
}
