package routes

import (
	"bookstore/controllers"
	"bookstore/middleware"
	"bookstore/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth      *controllers.AuthController
	Books     *controllers.BookController
	Inventory *controllers.InventoryController
	Cart      *controllers.CartController
	Checkout  *controllers.CheckoutController
	POS       *controllers.POSController
	Account   *controllers.AccountController
	Admin     *controllers.AdminController
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, jwt *utils.JWTManager, uploadDir string) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", middleware.GuestMiddleware(), ctrl.Auth.Register)
	router.POST("/auth/login", middleware.GuestMiddleware(), ctrl.Auth.Login)

	router.GET("/books", ctrl.Books.ListBooks)
	router.GET("/books/:id", ctrl.Books.GetBook)
	router.GET("/categories", ctrl.Books.ListCategories)
	router.GET("/categories/:slug/books", ctrl.Books.BooksByCategory)

	cart := router.Group("/cart")
	cart.Use(middleware.OptionalAuth(jwt), middleware.GuestMiddleware())
	{
		cart.GET("", ctrl.Cart.GetCart)
		cart.DELETE("", ctrl.Cart.ClearCart)
		cart.POST("/items", ctrl.Cart.AddItem)
		cart.PUT("/items/:bookId", ctrl.Cart.UpdateItem)
		cart.DELETE("/items/:bookId", ctrl.Cart.RemoveItem)
	}

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(jwt))
	{
		auth.POST("/cart/merge", middleware.GuestMiddleware(), ctrl.Cart.MergeCart)

		auth.GET("/profile", ctrl.Auth.GetProfile)
		auth.PATCH("/profile", ctrl.Auth.UpdateProfile)
		auth.PUT("/profile/password", ctrl.Auth.ChangePassword)
		auth.PUT("/profile/email", ctrl.Auth.ChangeEmail)

		auth.GET("/account/payment-methods", ctrl.Account.ListPaymentMethods)
		auth.POST("/account/payment-methods", ctrl.Account.AddPaymentMethod)
		auth.DELETE("/account/payment-methods/:id", ctrl.Account.DeletePaymentMethod)
		auth.PUT("/account/payment-methods/:id/default", ctrl.Account.SetDefaultPaymentMethod)
		auth.GET("/orders", ctrl.Account.ListOrders)
		auth.GET("/orders/:id", ctrl.Account.GetOrder)

		auth.POST("/checkout", ctrl.Checkout.Start)
		auth.GET("/checkout", ctrl.Checkout.Get)
		auth.DELETE("/checkout", ctrl.Checkout.Cancel)
		auth.PUT("/checkout/address", ctrl.Checkout.SetAddress)
		auth.PUT("/checkout/payment-method", ctrl.Checkout.SetPaymentMethod)
		auth.GET("/checkout/review", ctrl.Checkout.Review)
		auth.POST("/checkout/confirm", ctrl.Checkout.Confirm)
		auth.POST("/checkout/finalize", ctrl.Checkout.Finalize)
	}

	pos := router.Group("/pos")
	pos.Use(middleware.AuthMiddleware(jwt), middleware.StaffMiddleware())
	{
		pos.POST("/transactions", ctrl.POS.Open)
		pos.GET("/transactions/current", ctrl.POS.Current)
		pos.POST("/transactions/:id/lines", ctrl.POS.AddLine)
		pos.PUT("/transactions/:id/lines/:bookId", ctrl.POS.UpdateLine)
		pos.DELETE("/transactions/:id/lines/:bookId", ctrl.POS.RemoveLine)
		pos.POST("/transactions/:id/finalize", ctrl.POS.Finalize)
		pos.POST("/transactions/:id/cancel", ctrl.POS.Cancel)
		pos.GET("/transactions/:id/receipt", ctrl.POS.Receipt)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwt), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", ctrl.Admin.Dashboard)

		admin.GET("/users", ctrl.Admin.ListUsers)
		admin.PATCH("/users/:id/role", ctrl.Admin.UpdateUserRole)

		admin.GET("/books", ctrl.Inventory.ListBooks)
		admin.POST("/books", ctrl.Inventory.CreateBook)
		admin.GET("/books/:id", ctrl.Inventory.GetBook)
		admin.PATCH("/books/:id", ctrl.Inventory.UpdateBook)
		admin.DELETE("/books/:id", ctrl.Inventory.DeactivateBook)
		admin.POST("/books/:id/stock", ctrl.Inventory.AdjustStock)
		admin.POST("/books/:id/cover", ctrl.Inventory.UploadCover)

		admin.POST("/categories", ctrl.Inventory.CreateCategory)
		admin.PATCH("/categories/:id", ctrl.Inventory.UpdateCategory)
		admin.DELETE("/categories/:id", ctrl.Inventory.DeleteCategory)

		admin.GET("/orders", ctrl.Admin.ListOrders)
		admin.GET("/orders/:id", ctrl.Admin.GetOrder)
		admin.PATCH("/orders/:id/status", ctrl.Admin.UpdateOrderStatus)
	}

	router.Static("/uploads", uploadDir)
}
