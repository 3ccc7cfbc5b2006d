package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farellandr/echallan/config"
	"github.com/farellandr/echallan/internal/account"
	"github.com/farellandr/echallan/internal/blob"
	"github.com/farellandr/echallan/internal/challan"
	"github.com/farellandr/echallan/internal/dashboard"
	"github.com/farellandr/echallan/internal/gateway"
	"github.com/farellandr/echallan/internal/handlers"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/identity"
	"github.com/farellandr/echallan/internal/middleware"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Store         repository.Store
	Blobs         blob.Store
	Gateway       gateway.Gateway
	Tokens        *identity.JWTManager
	Verifier      identity.Verifier
	Signer        *helpers.Signer
	OTPSender     account.OTPSender
	CallbackToken string
	UploadDir     string
	Logger        *zap.Logger
}

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	logger, err := config.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	store, err := config.InitStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	blobs, err := config.InitBlobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %v", err)
	}

	xnd, err := config.LoadXenditConfig()
	if err != nil {
		return fmt.Errorf("failed to load xendit config: %v", err)
	}
	gw, err := gateway.New(cfg.GatewayConfig(xnd))
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %v", err)
	}

	tokens, err := identity.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	verifier := identity.Verifier(tokens)
	if cfg.GoogleClientID != "" {
		verifier = identity.Chain{tokens, identity.GoogleVerifier{ClientID: cfg.GoogleClientID}}
	}

	deps := Deps{
		Store:         store,
		Blobs:         blobs,
		Gateway:       gw,
		Tokens:        tokens,
		Verifier:      verifier,
		Signer:        helpers.NewSigner(cfg.QRSigningSecret),
		CallbackToken: cfg.PaymentCallbackToken,
		Logger:        logger,
	}
	if cfg.BlobDriver == config.BlobDriverLocal {
		deps.UploadDir = cfg.LocalUploadDir
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	setupRoutes(r, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("db", cfg.DBType),
			zap.String("blob", cfg.BlobDriver),
			zap.String("gateway", cfg.PaymentGateway),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRoutes(r *gin.Engine, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger), middleware.CORS())
	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accounts := account.NewService(deps.Store, deps.Tokens, deps.OTPSender, logger)
	challans := challan.NewService(challan.Deps{
		Store:   deps.Store,
		Blobs:   deps.Blobs,
		Gateway: deps.Gateway,
		Signer:  deps.Signer,
		Logger:  logger,
	})
	stats := dashboard.NewService(deps.Store, logger)

	authHandler := handlers.NewAuthHandler(accounts, logger)
	profileHandler := handlers.NewProfileHandler(accounts, logger)
	challanHandler := handlers.NewChallanHandler(challans, logger)
	paymentHandler := handlers.NewPaymentHandler(challans, logger)
	dashboardHandler := handlers.NewDashboardHandler(stats, logger)

	public := r.Group("/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/otp", authHandler.RequestOTP)
			auth.POST("/otp/verify", authHandler.VerifyOTP)
		}

		public.POST("/payments/verify", middleware.CallbackTokenMiddleware(deps.CallbackToken), paymentHandler.VerifyPayment)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Verifier))
	{
		protected.POST("/users", profileHandler.CreateUserAccount)
		protected.GET("/users/me", profileHandler.GetProfile)
		protected.PUT("/users/me", profileHandler.UpdateProfile)

		protected.POST("/addresses", profileHandler.CreateAddress)
		protected.GET("/addresses", profileHandler.ListAddresses)

		challanRoutes := protected.Group("/challans")
		{
			challanRoutes.POST("/person", challanHandler.CreatePersonChallan)
			challanRoutes.POST("/shop", challanHandler.CreateShopChallan)
			challanRoutes.GET("", challanHandler.ListChallans)
			challanRoutes.POST("/qr/validate", challanHandler.ValidateQR)
			challanRoutes.GET("/:challanId", challanHandler.GetChallan)
			challanRoutes.POST("/:challanId/photos", challanHandler.UploadPhotos)
			challanRoutes.POST("/:challanId/qr", challanHandler.RegenerateQR)
		}

		paymentRoutes := protected.Group("/payments")
		{
			paymentRoutes.POST("", paymentHandler.InitiatePayment)
			paymentRoutes.GET("/receipt/:challanId", paymentHandler.GetReceipt)
		}

		protected.GET("/dashboard", dashboardHandler.GetStats)
	}
}
