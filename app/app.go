package app

import (
	"context"
	"log"
	"os"

	"bookstore/config"
	"bookstore/controllers"
	"bookstore/libs"
	"bookstore/middleware"
	"bookstore/repositories"
	"bookstore/routes"
	"bookstore/services"
	"bookstore/storage"
	"bookstore/utils"

	"github.com/gin-gonic/gin"
)

// App holds the assembled HTTP router and the resources it owns.
type App struct {
	Router *gin.Engine
}

// New connects the database and Redis and wires every service behind the router.
// Optional collaborators fall back to local implementations when unconfigured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := config.ConnectDB(ctx)
	if err != nil {
		return nil, err
	}

	var kv storage.KV
	if client := config.ConnectRedis(ctx); client != nil {
		kv = storage.NewRedisKV(client)
	} else {
		kv = storage.NewMemoryKV()
	}

	var gateway services.PaymentGateway
	switch {
	case cfg.PaymentSecretKey != "":
		gateway = libs.NewPaymentClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)
	case cfg.IsProduction():
		log.Println("Warning: PAYMENT_SECRET_KEY not set, online checkout will fail")
		gateway = libs.NewPaymentClient(cfg.PaymentAPIURL, "")
	default:
		log.Println("Payment processor not configured, using sandbox gateway")
		gateway = libs.NewSandboxGateway()
	}

	var mailer services.Mailer
	if emailService, err := libs.NewEmailService(cfg); err == nil {
		mailer = emailService
	} else {
		log.Printf("Email disabled: %v", err)
		mailer = libs.LogMailer{}
	}

	var images services.ImageStore
	if cloudinaryService, err := libs.NewCloudinaryService(cfg); err == nil {
		images = cloudinaryService
	} else {
		log.Printf("Cloudinary disabled, storing uploads in %s: %v", cfg.UploadDir, err)
		if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
			return nil, err
		}
		images = utils.NewLocalImageStore(cfg.UploadDir, cfg.MaxUploadSize)
	}

	jwt := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	bookRepo := repositories.NewBookRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	posRepo := repositories.NewPOSRepository(db)
	userRepo := repositories.NewUserRepository(db)
	methodRepo := repositories.NewPaymentMethodRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	cartService := services.NewCartService(cartRepo, bookRepo, kv, cfg)
	bookService := services.NewBookService(bookRepo, categoryRepo, kv, images)
	authService := services.NewAuthService(userRepo, cartService, jwt)
	checkoutService := services.NewCheckoutService(kv, cartService, userRepo, methodRepo, orderRepo, gateway, mailer, cfg)
	posService := services.NewPOSService(posRepo, bookRepo, mailer, cfg.PaymentCurrency)
	accountService := services.NewAccountService(methodRepo, orderRepo)
	adminService := services.NewAdminService(reportRepo, orderRepo, userRepo, cfg.LowStockLimit)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	router.MaxMultipartMemory = cfg.MaxUploadSize

	routes.SetupRoutes(router, routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		Books:     controllers.NewBookController(bookService),
		Inventory: controllers.NewInventoryController(bookService),
		Cart:      controllers.NewCartController(cartService),
		Checkout:  controllers.NewCheckoutController(checkoutService),
		POS:       controllers.NewPOSController(posService),
		Account:   controllers.NewAccountController(accountService),
		Admin:     controllers.NewAdminController(adminService),
	}, jwt, cfg.UploadDir)

	return &App{Router: router}, nil
}

func (a *App) Close() {
	config.CloseRedis()
	config.CloseDB()
}
