// Package server exposes the HTTP surface: auth, personnel collections,
// uploads, health, and metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cadetops/corpshq/internal/authstate"
	"github.com/cadetops/corpshq/internal/award"
	"github.com/cadetops/corpshq/internal/backend"
	"github.com/cadetops/corpshq/internal/blobstore"
	"github.com/cadetops/corpshq/internal/cadet"
	"github.com/cadetops/corpshq/internal/config"
	"github.com/cadetops/corpshq/internal/docstore"
	identitydomain "github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/cadetops/corpshq/internal/ratelimit"
	"github.com/cadetops/corpshq/internal/unit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	cfg          config.Config
	sessions     identitydomain.Service
	authState    *authstate.Provider
	cadetSvc     *cadet.Service
	unitSvc      *unit.Service
	awardSvc     *award.Service
	blobs        blobstore.Service
	docs         docstore.Store
	cookies      *CookieManager
	loginLimiter *ratelimit.LoginLimiter
	metrics      *httpMetrics
	bucketDir    string
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Handles   *backend.Handles
	Sessions  identitydomain.Service
	AuthState *authstate.Provider
	CadetSvc  *cadet.Service
	UnitSvc   *unit.Service
	AwardSvc  *award.Service
	Blobs     blobstore.Service
	Docs      docstore.Store
}

func New(p Params) *Server {
	s := &Server{
		log:          p.Log.Named("server"),
		cfg:          p.Cfg,
		sessions:     p.Sessions,
		authState:    p.AuthState,
		cadetSvc:     p.CadetSvc,
		unitSvc:      p.UnitSvc,
		awardSvc:     p.AwardSvc,
		blobs:        p.Blobs,
		docs:         p.Docs,
		cookies:      NewCookieManager(p.Cfg),
		loginLimiter: ratelimit.NewLoginLimiter(),
		metrics:      newHTTPMetrics(),
		bucketDir:    p.Handles.BucketDir,
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(s.metrics.Middleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": s.mode()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	if s.bucketDir != "" {
		r.Static("/files", s.bucketDir)
	}

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/signup", s.rateLimited(s.SignUp))
		auth.POST("/login", s.rateLimited(s.Login))
		auth.POST("/login/:provider", s.rateLimited(s.LoginWithProvider))
		auth.POST("/logout", s.Logout)
		auth.POST("/reset", s.rateLimited(s.RequestPasswordReset))
		auth.GET("/me", s.AuthRequired(), s.Me)
		auth.PATCH("/me", s.AuthRequired(), s.UpdateProfile)

		cadets := v1.Group("/cadets", s.AuthRequired())
		cadets.GET("", s.ListCadets)
		cadets.POST("", s.CreateCadet)
		cadets.GET("/:id", s.GetCadet)
		cadets.PATCH("/:id", s.UpdateCadet)
		cadets.DELETE("/:id", s.DeleteCadet)

		units := v1.Group("/units", s.AuthRequired())
		units.GET("", s.ListUnits)
		units.POST("", s.CreateUnit)
		units.GET("/:id", s.GetUnit)
		units.PATCH("/:id", s.UpdateUnit)
		units.DELETE("/:id", s.DeleteUnit)

		awards := v1.Group("/awards", s.AuthRequired())
		awards.GET("", s.ListAwards)
		awards.POST("", s.CreateAward)
		awards.GET("/:id", s.GetAward)
		awards.PATCH("/:id", s.UpdateAward)
		awards.DELETE("/:id", s.DeleteAward)

		uploads := v1.Group("/uploads", s.AuthRequired())
		uploads.POST("/avatar", s.UploadAvatar)
		uploads.POST("/document", s.UploadDocument)
	}

	return r
}

func (s *Server) mode() string {
	if s.cfg.DemoMode() {
		return "demo"
	}
	return "live"
}

func run(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + s.cfg.HTTPPort,
		Handler: s.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("mode", s.mode()))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(New),
	fx.Invoke(run),
)
