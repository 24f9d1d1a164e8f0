package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "tripbook/internal/config"
	"tripbook/internal/domain"
	h "tripbook/internal/http/handlers"
	"tripbook/internal/http/middleware"
	"tripbook/internal/utils"
)

func NewRouter(env intconfig.Env, a h.API, tokens middleware.TokenParser) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins), middleware.Metrics())

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log.Warnf("failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if env.UploadDir != "" {
		r.Static("/uploads", env.UploadDir)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", a.Login)
		auth.POST("/register", a.Register)
		auth.GET("/me", middleware.Auth(tokens), a.Me)

		// Packages (public catalog)
		packages := api.Group("/packages")
		packages.GET("", a.ListPackages)
		packages.GET("/:id", a.GetPackage)
		packages.GET("/:id/reviews", a.ListPackageReviews)
		packages.POST("", middleware.Auth(tokens), middleware.RequireRoles(domain.RoleAgent), a.CreatePackage)

		secured := api.Group("", middleware.Auth(tokens))

		// Bookings
		bookings := secured.Group("/bookings")
		bookings.POST("", middleware.RequireRoles(domain.RoleTourist), a.CreateBooking)
		bookings.GET("", a.ListBookings)
		bookings.GET("/tourist/:touristId", middleware.RequireRoles(domain.RoleTourist), a.ListTouristBookings)
		bookings.GET("/package/:packageId", middleware.RequireRoles(domain.RoleAgent), a.ListPackageBookings)
		bookings.GET("/payment/pending", middleware.RequireRoles(domain.RoleAgent), a.ListPendingPayments)
		bookings.GET("/:id", a.GetBooking)
		bookings.PUT("/:id/status", a.UpdateBookingStatus)
		bookings.GET("/:id/invoice", a.GetBookingInvoicePDF)
		bookings.GET("/:id/voucher", a.GetBookingVoucherPDF)

		// Payments
		bookings.POST("/:id/payment-proof", middleware.RequireRoles(domain.RoleTourist), a.UploadPaymentProof)
		bookings.PUT("/:id/payment-verify", middleware.RequireRoles(domain.RoleAgent), a.VerifyPayment)
		bookings.PUT("/:id/payment-reject", middleware.RequireRoles(domain.RoleAgent), a.RejectPayment)
		bookings.GET("/:id/payment-history", a.PaymentHistory)
		secured.POST("/payment/generate", a.GenerateQR)

		// QRIS
		qris := secured.Group("/qris", middleware.RequireRoles(domain.RoleAgent))
		qris.GET("", a.ListQRIS)
		qris.POST("", a.UploadQRIS)
		qris.DELETE("/:id", a.DeleteQRIS)

		// Reviews
		secured.POST("/reviews", middleware.RequireRoles(domain.RoleTourist), a.SubmitReview)
	}

	h.SetRouter(r)
	return r
}
