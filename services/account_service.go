package services

import (
	"context"

	"bookstore/models"
)

// AccountService covers a customer's saved payment methods and order history.
// Everything is scoped to the caller's user id.
type AccountService struct {
	methods PaymentMethodRepository
	orders  OrderRepository
}

func NewAccountService(methods PaymentMethodRepository, orders OrderRepository) *AccountService {
	return &AccountService{methods: methods, orders: orders}
}

func (s *AccountService) ListPaymentMethods(ctx context.Context, userID int) ([]models.PaymentMethod, error) {
	return s.methods.ListByUser(ctx, userID)
}

func (s *AccountService) AddPaymentMethod(ctx context.Context, userID int, req models.PaymentMethodRequest) (*models.PaymentMethod, error) {
	pm := &models.PaymentMethod{
		UserID:         userID,
		ProcessorToken: req.ProcessorToken,
		Brand:          req.Brand,
		Last4:          req.Last4,
		ExpMonth:       req.ExpMonth,
		ExpYear:        req.ExpYear,
		IsDefault:      req.IsDefault,
	}
	if err := s.methods.Create(ctx, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

func (s *AccountService) DeletePaymentMethod(ctx context.Context, userID, id int) error {
	return s.methods.Delete(ctx, userID, id)
}

func (s *AccountService) SetDefaultPaymentMethod(ctx context.Context, userID, id int) error {
	return s.methods.SetDefault(ctx, userID, id)
}

func (s *AccountService) ListOrders(ctx context.Context, userID int) ([]models.OrderSummary, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetOrder hides other users' orders behind ErrNotFound.
func (s *AccountService) GetOrder(ctx context.Context, userID, orderID int) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, models.ErrNotFound
	}
	return order, nil
}
