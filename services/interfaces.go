package services

import (
	"context"
	"mime/multipart"

	"bookstore/models"
)

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks bookstore/services PaymentGateway,Mailer,ImageStore

type BookRepository interface {
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error)
	GetByID(ctx context.Context, id int) (*models.Book, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Book, error)
	ListByCategorySlug(ctx context.Context, slug string) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	AdjustStock(ctx context.Context, id, delta int) (*models.Book, error)
	SetCover(ctx context.Context, id int, url, publicID string) error
	Deactivate(ctx context.Context, id int) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.BookCategory, error)
	GetByID(ctx context.Context, id int) (*models.BookCategory, error)
	Create(ctx context.Context, cat *models.BookCategory) error
	Update(ctx context.Context, cat *models.BookCategory) error
	Delete(ctx context.Context, id int) error
}

type CartRepository interface {
	GetItems(ctx context.Context, userID int) ([]models.CartItem, error)
	GetQuantity(ctx context.Context, userID, bookID int) (int, error)
	AddItem(ctx context.Context, userID, bookID, quantity int) error
	SetQuantity(ctx context.Context, userID, bookID, quantity int) error
	RemoveItem(ctx context.Context, userID, bookID int) error
	Clear(ctx context.Context, userID int) error
}

type OrderRepository interface {
	GetByID(ctx context.Context, id int) (*models.Order, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]models.OrderSummary, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	FinalizeCheckout(ctx context.Context, params models.FinalizeCheckoutParams) (*models.Order, error)
}

type POSRepository interface {
	Open(ctx context.Context, staffID int, orderNumber string) (int, error)
	FindOpen(ctx context.Context, staffID int) (*models.Order, error)
	Get(ctx context.Context, orderID int) (*models.Order, error)
	AddLine(ctx context.Context, orderID int, item models.OrderItem) error
	SetLineQuantity(ctx context.Context, orderID, bookID, quantity int) error
	RemoveLine(ctx context.Context, orderID, bookID int) error
	Recalculate(ctx context.Context, orderID int) error
	Finalize(ctx context.Context, orderID, staffID int, paymentType, customerEmail string) (*models.Order, error)
	Cancel(ctx context.Context, orderID, staffID int) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User, profile *models.UserProfile) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	GetUserWithProfile(ctx context.Context, userID int) (*models.UserWithProfile, error)
	List(ctx context.Context, page, limit int, search string) ([]models.UserWithProfile, int, error)
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error
	UpdatePassword(ctx context.Context, userID int, hashedPassword string) error
	UpdateEmail(ctx context.Context, userID int, email string) error
	UpdateRole(ctx context.Context, userID int, role string) error
}

type PaymentMethodRepository interface {
	ListByUser(ctx context.Context, userID int) ([]models.PaymentMethod, error)
	GetForUser(ctx context.Context, userID, id int) (*models.PaymentMethod, error)
	Create(ctx context.Context, pm *models.PaymentMethod) error
	Delete(ctx context.Context, userID, id int) error
	SetDefault(ctx context.Context, userID, id int) error
}

type ReportRepository interface {
	Dashboard(ctx context.Context, lowStockLimit, topN int) (*models.DashboardReport, error)
}

// PaymentGateway is the external payment processor.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, params models.CreatePaymentIntentParams) (*models.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*models.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) (*models.PaymentIntent, error)
}

type Mailer interface {
	SendOrderConfirmation(to string, order *models.Order) error
	SendReceipt(to string, order *models.Order, receipt string) error
}

// ImageStore uploads images and returns their public URL and the id needed to delete them.
type ImageStore interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, string, error)
	Delete(ctx context.Context, publicID string) error
}
