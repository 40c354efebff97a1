package services

import (
	"context"
	"testing"

	"bookstore/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReports struct {
	lowStockLimit, topN int
}

func (s *stubReports) Dashboard(_ context.Context, lowStockLimit, topN int) (*models.DashboardReport, error) {
	s.lowStockLimit, s.topN = lowStockLimit, topN
	return &models.DashboardReport{Revenue: 100}, nil
}

func TestAdminService_UpdateOrderStatus(t *testing.T) {
	books := catalogFixture()
	orders := newFakeOrders(newFakeCarts(books), books)
	svc := NewAdminService(&stubReports{}, orders, newFakeUsers(), 5)
	ctx := context.Background()

	order := orders.add(models.Order{OrderNumber: "BK-1", Channel: models.ChannelOnline, Status: models.OrderStatusPaid})

	updated, err := svc.UpdateOrderStatus(ctx, order.ID, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)

	_, err = svc.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	_, err = svc.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.UpdateOrderStatus(ctx, 404, models.OrderStatusShipped)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdminService_UpdateOrderStatusLeavesOpenRegisterTransactions(t *testing.T) {
	books := catalogFixture()
	orders := newFakeOrders(newFakeCarts(books), books)
	svc := NewAdminService(&stubReports{}, orders, newFakeUsers(), 5)
	ctx := context.Background()

	open := orders.add(models.Order{OrderNumber: "POS-1", Channel: models.ChannelPOS, Status: models.OrderStatusPending})

	for _, status := range []string{models.OrderStatusPaid, models.OrderStatusCancelled} {
		_, err := svc.UpdateOrderStatus(ctx, open.ID, status)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	}
	current, err := svc.GetOrder(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, current.Status)

	settled := orders.add(models.Order{OrderNumber: "POS-2", Channel: models.ChannelPOS, Status: models.OrderStatusPaid})
	updated, err := svc.UpdateOrderStatus(ctx, settled.ID, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
}

func TestAdminService_DashboardAndRoles(t *testing.T) {
	reports := &stubReports{}
	users := newFakeUsers()
	svc := NewAdminService(reports, nil, users, 7)
	ctx := context.Background()

	report, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Revenue)
	assert.Equal(t, 7, reports.lowStockLimit)
	assert.Equal(t, topSellerCount, reports.topN)

	admin := &models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, admin, &models.UserProfile{}))
	clerk := &models.User{Email: "clerk@example.com", Role: models.RoleCustomer}
	require.NoError(t, users.Create(ctx, clerk, &models.UserProfile{}))

	updated, err := svc.UpdateUserRole(ctx, admin.ID, clerk.ID, models.RoleSalesAssociate)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSalesAssociate, updated.Role)

	_, err = svc.UpdateUserRole(ctx, admin.ID, admin.ID, models.RoleCustomer)
	assert.True(t, models.IsValidation(err))
}
