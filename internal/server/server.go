package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dinebilllabs/dinebill/internal/billing"
	billingdomain "github.com/dinebilllabs/dinebill/internal/billing/domain"
	"github.com/dinebilllabs/dinebill/internal/config"
	obsmiddleware "github.com/dinebilllabs/dinebill/internal/observability/logger"
	obsmetrics "github.com/dinebilllabs/dinebill/internal/observability/metrics"
	obstracing "github.com/dinebilllabs/dinebill/internal/observability/tracing"
	"github.com/dinebilllabs/dinebill/internal/product"
	productdomain "github.com/dinebilllabs/dinebill/internal/product/domain"
	"github.com/dinebilllabs/dinebill/internal/reporting"
	"github.com/dinebilllabs/dinebill/internal/taxgroup"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	taxgroup.Module,
	product.Module,
	billing.Module,
	reporting.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	billingSvc   billingdomain.Service
	productSvc   productdomain.Service
	taxGroupSvc  taxgroupdomain.Service
	reportingSvc *reporting.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	BillingSvc   billingdomain.Service
	ProductSvc   productdomain.Service
	TaxGroupSvc  taxgroupdomain.Service
	ReportingSvc *reporting.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		billingSvc:   p.BillingSvc,
		productSvc:   p.ProductSvc,
		taxGroupSvc:  p.TaxGroupSvc,
		reportingSvc: p.ReportingSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.OrgRequired())

	// -------- Tax Groups --------
	api.GET("/tax_groups", s.ListTaxGroups)
	api.POST("/tax_groups", s.CreateTaxGroup)
	api.PUT("/tax_groups/:id", s.UpdateTaxGroup)
	api.POST("/tax_groups/:id/deactivate", s.DeactivateTaxGroup)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.PUT("/products/:id", s.UpdateProduct)
	api.POST("/products/:id/deactivate", s.DeactivateProduct)

	// -------- Bills --------
	api.POST("/bills", s.CreateBill)
	api.GET("/bills", s.ListBills)
	api.GET("/bills/:id", s.GetBill)

	// -------- Reports --------
	api.GET("/reports/sales_summary", s.SalesSummaryReport)
	api.GET("/reports/tax_breakdown", s.TaxBreakdownReport)
}
