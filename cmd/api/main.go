package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/frescomar/allocation-api/api/swagger"
	"github.com/frescomar/allocation-api/internal/handler"
	appmiddleware "github.com/frescomar/allocation-api/internal/middleware"
	"github.com/frescomar/allocation-api/internal/repository"
	"github.com/frescomar/allocation-api/internal/service"
	"github.com/frescomar/allocation-api/internal/store"
	"github.com/frescomar/allocation-api/pkg/cache"
	"github.com/frescomar/allocation-api/pkg/config"
	"github.com/frescomar/allocation-api/pkg/database"
	"github.com/frescomar/allocation-api/pkg/logger"
	"github.com/frescomar/allocation-api/pkg/mailer"
	corsmiddleware "github.com/frescomar/allocation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/frescomar/allocation-api/pkg/middleware/requestid"
)

// @title Inventory & Orders Allocation API
// @version 1.0.0
// @description Inventory-to-order allocation tracker with shipment milestones and customer notifications
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	defer redisClient.Close()

	lotRepo := repository.NewLotRepository(db)
	orderRepo := repository.NewSalesOrderRepository(db)
	clientRepo := repository.NewClientRepository(db)
	allocRepo := repository.NewAllocationRepository(redisClient, logr)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lots, err := lotRepo.List(ctx)
	if err != nil {
		logr.Sugar().Fatalw("failed to load inventory lots", "error", err)
	}
	orders, err := orderRepo.List(ctx)
	if err != nil {
		logr.Sugar().Fatalw("failed to load sales orders", "error", err)
	}
	allocations := allocRepo.Load(ctx)

	state := store.New(lots, orders, allocations)
	logr.Sugar().Infow("state loaded",
		"lots", len(lots),
		"salesOrders", len(orders),
		"allocations", len(allocations),
	)

	var mail mailer.Mailer
	if cfg.Notifications.Simulate {
		mail = mailer.NewSimulator(logr)
	} else {
		mail = mailer.NewSMTP(cfg.SMTP, logr)
	}

	metricsSvc := service.NewMetricsService()
	inventorySvc := service.NewInventoryService(state, lotRepo, logr)
	dashboardSvc := service.NewDashboardService(state, cacheRepo, cfg.Dashboard.CacheTTL, logr)
	notificationSvc := service.NewNotificationService(
		state,
		allocRepo,
		service.NewDirectoryResolver(clientRepo),
		mail,
		metricsSvc,
		logr,
		cfg.Tracking.PublicOrigin,
		cfg.Notifications.SubjectPrefix,
	)
	allocationSvc := service.NewAllocationService(
		state,
		inventorySvc,
		allocRepo,
		clientRepo,
		notificationSvc,
		dashboardSvc,
		metricsSvc,
		nil,
		logr,
	)
	milestoneSvc := service.NewMilestoneService(state, allocRepo, notificationSvc, dashboardSvc, logr)
	trackingSvc := service.NewTrackingService(state)

	inventoryHandler := handler.NewInventoryHandler(inventorySvc)
	orderHandler := handler.NewOrderHandler(allocationSvc)
	allocationHandler := handler.NewAllocationHandler(allocationSvc, milestoneSvc, notificationSvc)
	trackingHandler := handler.NewTrackingHandler(trackingSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.GET("/track/:token", trackingHandler.Track)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/inventory", inventoryHandler.List)
		api.GET("/inventory/export", inventoryHandler.Export)

		api.GET("/orders", orderHandler.List)

		api.GET("/allocations", allocationHandler.List)
		api.POST("/allocations", allocationHandler.Create)
		api.GET("/allocations/:id", allocationHandler.Get)
		api.DELETE("/allocations/:id", allocationHandler.Cancel)
		api.PUT("/allocations/:id/milestone", allocationHandler.SetMilestone)
		api.PUT("/allocations/:id/notify-rule", allocationHandler.UpdateNotifyRule)
		api.POST("/allocations/:id/notify", allocationHandler.Notify)

		api.GET("/dashboard", dashboardHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
