package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/database"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/handlers"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/identity"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/ledger"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/logging"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/middleware"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/payment"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/pins"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/stockist"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment")
	} else {
		log.Println("✅ .env file loaded and applied")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env == "release")
	if err != nil {
		log.Fatalf("❌ Logger error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer pool.Close()

	if err := database.InitSchema(ctx, pool); err != nil {
		log.Fatalf("❌ Schema init failed: %v", err)
	}
	if err := database.Seed(ctx, pool, cfg); err != nil {
		log.Fatalf("❌ Seed failed: %v", err)
	}
	log.Println("✅ Database ready")

	st := store.New(pool, cfg.DBTimeout)
	identitySvc := identity.NewService(st, logger)
	pinsSvc := pins.NewService(st)
	ledgerSvc := ledger.NewService(st, cfg, logger)
	intake := payment.NewIntake(st, cfg, payment.NewPaystackClient(cfg), ledgerSvc, logger)
	stockistSvc := stockist.NewService(st, logger)

	h := handlers.New(cfg, st, identitySvc, pinsSvc, ledgerSvc, intake, stockistSvc, logger)

	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.SetTrustedProxies(cfg.TrustedProxies)
	r.Use(middleware.SetupCORS(cfg))

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.GET("/api/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", loginLimiter.Middleware(), h.Register)
			authGroup.POST("/login", loginLimiter.Middleware(), h.Login)
			authGroup.POST("/refresh", h.Refresh)
		}

		api.GET("/lookup-referrer", h.LookupReferrer)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/user/profile", h.Profile)
			protected.GET("/user/stats", h.MyStats)
			protected.GET("/user/commissions", h.MyCommissions)

			protected.POST("/payment/initialize", h.InitializePayment)
			protected.POST("/payment/verify", h.VerifyPayment)
			protected.GET("/payment/history", h.PaymentHistory)

			protected.POST("/2fa/setup", h.TwoFASetup)
			protected.POST("/2fa/verify", h.TwoFAVerify)

			protected.POST("/stockist/apply", h.StockistApply)
			protected.GET("/stockist/me", h.StockistMe)
			protected.POST("/stockist/transactions", h.StockistPostTransaction)
			protected.GET("/stockist/transactions", h.StockistTransactions)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.GET("/users", h.AdminUsers)
				admin.POST("/users/:id/suspend", h.AdminSuspendUser)
				admin.GET("/commissions", h.AdminCommissions)
				admin.POST("/commissions/:id/approve", h.AdminApproveCommission)
				admin.POST("/commissions/:id/pay", h.AdminPayCommission)
				admin.GET("/stats", h.AdminStats)
				admin.POST("/pins", h.AdminIssuePins)
				admin.GET("/pins", h.AdminListPins)
				admin.GET("/stockists", h.AdminStockists)
				admin.POST("/stockists/:id/approve", h.AdminApproveStockist)
			}
		}
	}

	log.Printf("🚀 Bright Orion backend listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}
