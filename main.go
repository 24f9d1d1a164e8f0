package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	intconfig "tripbook/internal/config"
	router "tripbook/internal/http"
	"tripbook/internal/http/handlers"
	"tripbook/internal/repositories"
	"tripbook/internal/services"
	"tripbook/internal/storage"
	"tripbook/internal/utils"
)

func main() {
	env := intconfig.LoadEnv()
	utils.InitLogger(env.LogLevel, env.LogJSON)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env.DBDSN)
	if err != nil {
		utils.Log.Fatalf("Gagal koneksi database: %v", err)
	}
	defer intconfig.CloseDB()

	if env.MigrateOnStart {
		if err := intconfig.Migrate(db); err != nil {
			utils.Log.Fatalf("Migrasi gagal: %v", err)
		}
	}

	var (
		bookingRepo = repositories.BookingRepository{DB: db}
		packageRepo = repositories.PackageRepository{DB: db}
		userRepo    = repositories.UserRepository{DB: db}
		store       = storage.LocalStore{Dir: env.UploadDir, BaseURL: env.PublicBaseURL}
		tokens      = services.TokenManager{Secret: []byte(env.JWTSecret), TTL: env.TokenTTL}
	)
	bookingSvc := services.BookingService{Bookings: bookingRepo, Packages: packageRepo}
	api := handlers.API{
		Auth:     services.AuthService{Users: userRepo, Tokens: tokens},
		Packages: services.PackageService{Packages: packageRepo},
		Bookings: bookingSvc,
		Payments: services.PaymentService{
			Bookings: bookingRepo,
			Packages: packageRepo,
			Events:   repositories.PaymentEventRepository{DB: db},
			Store:    store,
		},
		QRIS: services.QRISService{
			QRIS:     repositories.QRISRepository{DB: db},
			Bookings: bookingRepo,
			Packages: packageRepo,
			Store:    store,
		},
		Reviews:  services.ReviewService{Bookings: bookingRepo, Reviews: repositories.ReviewRepository{DB: db}},
		Invoices: services.InvoiceService{Bookings: bookingRepo, Packages: packageRepo, Users: userRepo},
	}

	// Router (Gin engine)
	r := router.NewRouter(env, api, tokens)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Log.Infof("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return services.CompletionSweeper{Bookings: bookingSvc, Interval: env.SweepInterval}.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		utils.Log.Info("Mematikan server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		utils.Log.Fatalf("Server berhenti dengan error: %v", err)
	}
	utils.Log.Info("Server berhenti dengan aman.")
}
