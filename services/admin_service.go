package services

import (
	"context"
	"fmt"

	"bookstore/models"
)

const topSellerCount = 5

type AdminService struct {
	reports       ReportRepository
	orders        OrderRepository
	users         UserRepository
	lowStockLimit int
}

func NewAdminService(reports ReportRepository, orders OrderRepository, users UserRepository, lowStockLimit int) *AdminService {
	return &AdminService{reports: reports, orders: orders, users: users, lowStockLimit: lowStockLimit}
}

func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardReport, error) {
	return s.reports.Dashboard(ctx, s.lowStockLimit, topSellerCount)
}

func (s *AdminService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	return s.orders.List(ctx, filter)
}

func (s *AdminService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// UpdateOrderStatus only allows the forward transitions of the order lifecycle.
// An open register transaction is settled or voided at the register.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id int, status string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Channel == models.ChannelPOS && order.Status == models.OrderStatusPending {
		return nil, fmt.Errorf("%w: open register transactions are finalized or cancelled at the register", models.ErrInvalidTransition)
	}
	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, order.Status, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int, search string) ([]models.UserWithProfile, int, error) {
	return s.users.List(ctx, page, limit, search)
}

// UpdateUserRole refuses to let an admin demote themselves.
func (s *AdminService) UpdateUserRole(ctx context.Context, actorID, userID int, role string) (*models.UserWithProfile, error) {
	if actorID == userID && role != models.RoleAdmin {
		return nil, models.NewValidationError("you cannot change your own role")
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return s.users.GetUserWithProfile(ctx, userID)
}
