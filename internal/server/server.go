// Package server exposes the billing desk HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/wardbooklabs/wardbook/internal/authz"
	billingdomain "github.com/wardbooklabs/wardbook/internal/billing/domain"
	"github.com/wardbooklabs/wardbook/internal/config"
	"github.com/wardbooklabs/wardbook/internal/invoice"
	paymentdomain "github.com/wardbooklabs/wardbook/internal/payment/domain"
	reportingdomain "github.com/wardbooklabs/wardbook/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(registerLifecycle),
)

type Params struct {
	fx.In

	Config    *config.Config
	Log       *zap.Logger
	Enforcer  *authz.Enforcer
	Redis     *goredis.Client `optional:"true"`
	Billing   billingdomain.Service
	Payments  paymentdomain.Service
	Reporting reportingdomain.Service
	Renderer  *invoice.Renderer
}

type Server struct {
	engine    *gin.Engine
	cfg       *config.Config
	log       *zap.Logger
	enforcer  *authz.Enforcer
	redis     *goredis.Client
	billing   billingdomain.Service
	payments  paymentdomain.Service
	reporting reportingdomain.Service
	renderer  *invoice.Renderer
}

func NewServer(p Params) *Server {
	if p.Config.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:    gin.New(),
		cfg:       p.Config,
		log:       p.Log.Named("server"),
		enforcer:  p.Enforcer,
		redis:     p.Redis,
		billing:   p.Billing,
		payments:  p.Payments,
		reporting: p.Reporting,
		renderer:  p.Renderer,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestID())
	s.engine.Use(s.accessLog())

	s.engine.GET("/healthz", s.health)
	if s.cfg.Observability.MetricsEnabled {
		s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	billing := s.engine.Group("/billing")
	billing.Use(s.authenticate())

	billing.GET("/stats", s.getStats)
	billing.GET("/active-admissions", s.listActiveAdmissions)
	billing.GET("/patient/:patientId/admission", s.getPatientAdmission)
	billing.GET("/patient/:patientId/history", s.getPatientHistory)

	billing.POST("/ipd/calculate", s.calculateIPD)
	billing.POST("/ipd/generate", s.idempotent(), s.generateIPD)
	billing.POST("/opd/calculate", s.calculateOPD)
	billing.POST("/opd/generate", s.idempotent(), s.generateOPD)

	billing.GET("/bills", s.listBills)
	billing.GET("/pending", s.listPendingBills)
	billing.GET("/:billId", s.getBill)
	billing.PATCH("/:billId", s.updateBill)
	billing.DELETE("/:billId", s.deleteBill)
	billing.GET("/:billId/invoice", s.getInvoice)

	billing.POST("/:billId/payment", s.idempotent(), s.processPayment)
	billing.PATCH("/:billId/status", s.overrideStatus)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func registerLifecycle(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
