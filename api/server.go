package api

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/alert"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/event"
	"github.com/gogomarket/gogomarket-BE/internal/mailer"
	"github.com/gogomarket/gogomarket-BE/internal/payment"
	"github.com/gogomarket/gogomarket-BE/internal/storage"
	"github.com/gogomarket/gogomarket-BE/internal/token"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/gogomarket/gogomarket-BE/internal/worker"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"google.golang.org/api/idtoken"
	"resty.dev/v3"
)

type Server struct {
	router                 *gin.Engine
	dbStore                db.Store
	fileStore              storage.FileStore
	tokenMaker             token.Maker
	config                 *util.Config
	googleIDTokenValidator *idtoken.Validator
	mailService            *mailer.GmailSender
	taskDistributor        worker.TaskDistributor
	paymentService         *payment.Service
	alertNotifier          *alert.Notifier
	restyClient            *resty.Client
	eventSender            event.EventSender
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(store db.Store, taskDistributor worker.TaskDistributor, config *util.Config, mailService *mailer.GmailSender, alertNotifier *alert.Notifier, eventSender event.EventSender) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")

	// Create a new Google ID token validator
	googleIDTokenValidator, err := idtoken.NewValidator(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create google id token validator: %w", err)
	}

	// Create a new Cloudinary instance
	fileStore := storage.NewCloudinaryStore(config.CloudinaryURL)
	log.Info().Msg("Cloudinary store created successfully ✅")

	restyClient := resty.New()

	// Create a new payment gateway client
	paymentService := payment.NewService(*config, store, restyClient)
	log.Info().Msg("Payment service created successfully ✅")

	server := &Server{
		dbStore:                store,
		tokenMaker:             tokenMaker,
		config:                 config,
		googleIDTokenValidator: googleIDTokenValidator,
		fileStore:              fileStore,
		mailService:            mailService,
		taskDistributor:        taskDistributor,
		paymentService:         paymentService,
		alertNotifier:          alertNotifier,
		restyClient:            restyClient,
		eventSender:            eventSender,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	gin.ForceConsoleColor()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/v1")

	v1.POST("/tokens/verify", server.verifyAccessToken)

	v1.POST("/auth/register", server.createUser)
	v1.POST("/auth/login", server.loginUser)
	v1.POST("/auth/google-login", server.loginUserWithGoogle)

	// Payment gateway calls this back server-to-server, authenticated by MAC.
	v1.POST("/payments/callback", server.paymentCallback)

	productGroup := v1.Group("/products")
	{
		productGroup.GET("", server.listProducts)
		productGroup.GET("by-slug/:slug", server.getProductBySlug)
	}

	userGroup := v1.Group("/users", authMiddleware(server.tokenMaker))
	{
		userGroup.GET("me", server.getCurrentUser)
		userGroup.POST("me/email/send-otp", server.sendEmailOTP)
		userGroup.POST("me/email/verify", server.verifyEmail)
		userGroup.GET("me/notifications", server.listNotifications)
		userGroup.GET("me/stream", server.streamUserEvents)
	}

	v1.PATCH("/notifications/:id/read", authMiddleware(server.tokenMaker), server.markNotificationRead)

	orderGroup := v1.Group("/orders", authMiddleware(server.tokenMaker))
	{
		orderGroup.POST("", server.createOrder)
		orderGroup.GET("", server.listMyOrders)
		orderGroup.GET(":id", server.getOrder)
		orderGroup.PATCH(":id/cancel", server.cancelOrder)
		orderGroup.POST(":id/payment", server.createOrderPayment)
		orderGroup.POST(":id/disputes", server.openDispute)
		orderGroup.POST(":id/returns", server.createReturn)
		orderGroup.GET(":id/stream", server.streamOrderEvents)
	}

	v1.GET("/disputes/:id", authMiddleware(server.tokenMaker), server.getDispute)

	returnGroup := v1.Group("/returns", authMiddleware(server.tokenMaker))
	{
		returnGroup.GET("", server.listMyReturns)
		returnGroup.POST(":id/advance", server.advanceReturn)
		returnGroup.POST(":id/refund", server.refundReturn)
	}

	sellerGroup := v1.Group("/sellers/me", authMiddleware(server.tokenMaker), requiredRole(db.UserRoleSeller))
	{
		sellerGroup.POST("products", server.createProduct)
		sellerGroup.GET("products", server.listSellerProducts)

		sellerOrderGroup := sellerGroup.Group("orders")
		{
			sellerOrderGroup.GET("", server.listSellerOrders)
			sellerOrderGroup.PATCH(":id/confirm", server.confirmOrder)
			sellerOrderGroup.PATCH(":id/cancel", server.sellerCancelOrder)
		}
	}

	courierGroup := v1.Group("/courier", authMiddleware(server.tokenMaker), requiredRole(db.UserRoleCourier))
	{
		courierGroup.GET("orders/available", server.listAvailableOrders)
		courierGroup.GET("orders", server.listCourierOrders)
		courierGroup.PATCH("orders/:id/pickup", server.pickupOrder)
		courierGroup.PATCH("orders/:id/depart", server.departOrder)
		courierGroup.PATCH("orders/:id/deliver", server.deliverOrder)
	}

	adminGroup := v1.Group("/admin", authMiddleware(server.tokenMaker), requiredRole(db.UserRoleAdmin))
	{
		adminGroup.GET("dashboard", server.getDashboardStats)
		adminGroup.GET("orders", server.adminListOrders)
		adminGroup.GET("orders/:id/ledger", server.adminGetOrderLedger)
		adminGroup.GET("disputes", server.adminListDisputes)
		adminGroup.POST("disputes/:id/resolve", server.resolveDispute)
		adminGroup.GET("payouts/pending", server.adminListPendingPayouts)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
