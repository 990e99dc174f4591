// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/config"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/handlers"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/middleware"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/services"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	prescriptionService := services.NewPrescriptionService(db, storageService)
	orderService := services.NewOrderService(db)
	cartService := services.NewCartService(db, orderService)
	paymentService := services.NewPaymentService(db, cfg)
	cmsService := services.NewCMSService(db)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)
	orderHandler := handlers.NewOrderHandler(orderService)
	cartHandler := handlers.NewCartHandler(cartService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	cmsHandler := handlers.NewCMSHandler(cmsService)
	adminHandler := handlers.NewAdminHandler(adminService)
	mediaHandler := handlers.NewMediaHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.AuthRateLimit(), authHandler.Register)
			auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)

			protected := auth.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/me", authHandler.GetProfile)
				protected.PUT("/me", authHandler.UpdateProfile)
				protected.POST("/change-password", authHandler.ChangePassword)
			}
		}

		// Catalog routes
		products := v1.Group("/products")
		products.Use(middleware.OptionalAuth())
		{
			products.GET("", productHandler.SearchProducts)
			products.GET("/featured", productHandler.GetFeaturedProducts)
			products.GET("/:id", productHandler.GetProduct)
		}
		v1.GET("/categories", middleware.OptionalAuth(), productHandler.GetCategories)

		// Prescription routes
		prescriptions := v1.Group("/prescriptions")
		prescriptions.Use(middleware.AuthRequired())
		{
			prescriptions.POST("", middleware.UploadRateLimit(), prescriptionHandler.SubmitPrescription)
			prescriptions.GET("", prescriptionHandler.GetMyPrescriptions)

			// Pharmacist workflow
			review := prescriptions.Group("")
			review.Use(middleware.PharmacistRequired())
			{
				review.GET("/review-queue", prescriptionHandler.GetReviewQueue)
				review.GET("/all", prescriptionHandler.SearchPrescriptions)
				review.POST("/:id/approve", prescriptionHandler.ApprovePrescription)
				review.POST("/:id/reject", prescriptionHandler.RejectPrescription)
			}

			prescriptions.GET("/:id", prescriptionHandler.GetPrescription)
			prescriptions.GET("/:id/image", prescriptionHandler.GetPrescriptionImage)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrderFromPrescription)
			orders.GET("", orderHandler.GetMyOrders)

			// Fulfillment is staff-only
			staff := orders.Group("")
			staff.Use(middleware.PharmacistRequired())
			{
				staff.GET("/all", orderHandler.SearchOrders)
				staff.PUT("/:id/status", orderHandler.UpdateOrderStatus)
				staff.POST("/:id/complete", orderHandler.CompleteOrder)
			}

			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:productId", cartHandler.UpdateItem)
			cart.DELETE("/items/:productId", cartHandler.RemoveItem)
			cart.POST("/merge", cartHandler.MergeCart)
			cart.POST("/checkout", cartHandler.Checkout)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("/webhook", paymentHandler.HandleWebhook)

			protected := payments.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/checkout-session", paymentHandler.CreateCheckoutSession)
				protected.GET("/history", paymentHandler.GetPaymentHistory)
			}
		}

		// Public content routes
		content := v1.Group("/content")
		content.Use(middleware.OptionalAuth())
		{
			content.GET("/pages/:slug", cmsHandler.GetPage)
			content.GET("/blog", cmsHandler.ListBlogPosts)
			content.GET("/blog/:slug", cmsHandler.GetBlogPost)
			content.GET("/health-articles", cmsHandler.ListHealthArticles)
			content.GET("/health-articles/:slug", cmsHandler.GetHealthArticle)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)
			admin.GET("/users", adminHandler.GetUsers)
			admin.POST("/users", adminHandler.CreateStaffUser)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)

			admin.POST("/products", productHandler.CreateProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)
			admin.PUT("/products/:id/stock", productHandler.AdjustStock)
			admin.POST("/categories", productHandler.CreateCategory)

			admin.POST("/media", mediaHandler.UploadMedia)
			admin.DELETE("/media", mediaHandler.DeleteMedia)

			adminContent := admin.Group("/content")
			{
				adminContent.GET("/pages", cmsHandler.ListAllPages)
				adminContent.POST("/pages", cmsHandler.CreatePage)
				adminContent.PUT("/pages/:id", cmsHandler.UpdatePage)
				adminContent.POST("/pages/:id/publish", cmsHandler.PublishPage)
				adminContent.DELETE("/pages/:id", cmsHandler.DeletePage)

				adminContent.GET("/blog", cmsHandler.ListAllBlogPosts)
				adminContent.POST("/blog", cmsHandler.CreateBlogPost)
				adminContent.PUT("/blog/:id", cmsHandler.UpdateBlogPost)
				adminContent.POST("/blog/:id/publish", cmsHandler.PublishBlogPost)
				adminContent.DELETE("/blog/:id", cmsHandler.DeleteBlogPost)

				adminContent.GET("/health-articles", cmsHandler.ListAllHealthArticles)
				adminContent.POST("/health-articles", cmsHandler.CreateHealthArticle)
				adminContent.PUT("/health-articles/:id", cmsHandler.UpdateHealthArticle)
				adminContent.POST("/health-articles/:id/publish", cmsHandler.PublishHealthArticle)
				adminContent.DELETE("/health-articles/:id", cmsHandler.DeleteHealthArticle)
			}
		}
	}

	return r
}
