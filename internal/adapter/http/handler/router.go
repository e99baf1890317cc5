package handler

import (
	"swapmarket/internal/adapter/http/middleware"
	redisStore "swapmarket/internal/adapter/storage/redis"
	"swapmarket/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	OfferSvc       ports.OfferService
	TxnSvc         ports.TransactionService
	KYCSvc         ports.KYCService
	MessageSvc     ports.MessageService
	AdminSvc       ports.AdminService
	TokenSvc       ports.TokenService
	UserRepo       ports.UserRepository
	Preferences    ports.PreferenceStore
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	// --- Offers: browsing is public, posting and accepting require auth ---
	offerHandler := NewOfferHandler(deps.OfferSvc)
	txnHandler := NewTransactionHandler(deps.TxnSvc, deps.MessageSvc)
	offers := v1.Group("/offers")
	{
		offers.GET("", rl("browse"), offerHandler.List)
		offers.GET("/:id", rl("browse"), offerHandler.Get)
		offers.POST("", jwtAuth, rl("offers_write"), offerHandler.Create)
		offers.POST("/:id/accept", jwtAuth, rl("transactions"), txnHandler.Accept)
	}

	// --- Transactions (parties only) ---
	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", rl("transactions"), txnHandler.List)
		transactions.GET("/:id", rl("transactions"), txnHandler.Get)
		transactions.PATCH("/:id/status", rl("transactions"), txnHandler.UpdateStatus)
		transactions.POST("/:id/proof", rl("transactions"), txnHandler.SubmitProof)
		transactions.GET("/:id/messages", rl("messages"), txnHandler.ListMessages)
		transactions.POST("/:id/messages", rl("messages"), txnHandler.PostMessage)
	}

	// --- KYC wizard ---
	kycHandler := NewKYCHandler(deps.KYCSvc)
	kyc := v1.Group("/kyc", jwtAuth)
	{
		kyc.GET("", rl("kyc"), kycHandler.Get)
		kyc.PATCH("", rl("kyc"), kycHandler.Update)
		kyc.POST("/continue", rl("kyc"), kycHandler.Continue)
		kyc.POST("/back", rl("kyc"), kycHandler.Back)
		kyc.POST("/phone/code", rl("phone_code"), kycHandler.RequestPhoneCode)
		kyc.POST("/phone/verify", rl("kyc"), kycHandler.VerifyPhone)
		kyc.POST("/submit", rl("kyc"), kycHandler.Submit)
	}

	// --- Profile ---
	userHandler := NewUserHandler(deps.UserRepo, deps.Preferences)
	users := v1.Group("/users", jwtAuth)
	{
		users.GET("/me", rl("browse"), userHandler.GetMe)
		users.PUT("/me/language", rl("browse"), userHandler.SetLanguage)
	}

	// --- Admin surface ---
	adminHandler := NewAdminHandler(deps.AdminSvc)
	admin := v1.Group("/admin", jwtAuth, middleware.RequireAdmin())
	{
		admin.GET("/users", rl("admin"), adminHandler.ListUsers)
		admin.POST("/users/:id/suspend", rl("admin"), adminHandler.SuspendUser)
		admin.POST("/users/:id/activate", rl("admin"), adminHandler.ActivateUser)
		admin.GET("/transactions", rl("admin"), adminHandler.ListTransactions)
		admin.PATCH("/transactions/:id/status", rl("admin"), adminHandler.OverrideTransactionStatus)
		admin.GET("/kyc", rl("admin"), adminHandler.ListKYC)
		admin.POST("/kyc/:user_id/verify", rl("admin"), adminHandler.VerifyKYC)
		admin.POST("/kyc/:user_id/reject", rl("admin"), adminHandler.RejectKYC)
		admin.DELETE("/messages/:id", rl("admin"), adminHandler.DeleteMessage)
	}

	return r
}
