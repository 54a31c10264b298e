package app

import (
	"context"

	"github.com/joaop25/NerdStore/internal/config"
	"github.com/joaop25/NerdStore/internal/identity/gate"
	"github.com/joaop25/NerdStore/internal/identity/handler"
	"github.com/joaop25/NerdStore/internal/identity/lockout"
	"github.com/joaop25/NerdStore/internal/identity/token"
	"github.com/joaop25/NerdStore/internal/middleware"
	"github.com/joaop25/NerdStore/internal/store/postgres"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	lockoutTracker := lockout.NewRedisTracker(
		infra.Redis.Client,
		cfg.LockoutThreshold,
		cfg.LockoutWindow,
	)

	store := postgres.NewStore(infra.DB, lockoutTracker)

	tokenCfg := token.Config{
		Secret:      cfg.JWTSecret,
		Issuer:      cfg.JWTIssuer,
		Audience:    cfg.JWTAudience,
		ExpiryHours: cfg.ExpiryHours,
	}

	credentialGate := gate.New(store)
	issuer := token.NewIssuer(store, tokenCfg)
	verifier := token.NewVerifier(tokenCfg)

	identityHandler := handler.NewHandler(credentialGate, issuer)
	authMiddleware := middleware.NewAuthMiddleware(verifier)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	identityHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.UserIDFromContext(c.Request.Context())
		c.JSON(200, gin.H{
			"user_id": userID,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
