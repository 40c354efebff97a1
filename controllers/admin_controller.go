package controllers

import (
	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

// Dashboard godoc
// @Summary Sales dashboard
// @Description Revenue, order counts, low stock and top sellers
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.DashboardReport}
// @Router /admin/dashboard [get]
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	report, err := ctrl.admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Dashboard retrieved", report)
}

// ListOrders godoc
// @Summary List orders
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Order status"
// @Param channel query string false "online or pos"
// @Param search query string false "Order number or email"
// @Success 200 {object} models.HATEOASResponse
// @Router /admin/orders [get]
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	page, limit := getPaginationParams(c, 10)
	filter := models.OrderFilter{
		Page:    page,
		Limit:   limit,
		Status:  c.Query("status"),
		Channel: c.Query("channel"),
		Search:  c.Query("search"),
	}

	orders, total, err := ctrl.admin.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, buildPagedResponse(c, "Orders retrieved", orders, page, limit, total))
}

// GetOrder godoc
// @Summary Order detail
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Router /admin/orders/{id} [get]
func (ctrl *AdminController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.admin.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Order retrieved", order)
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body models.OrderStatusRequest true "Status"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/orders/{id}/status [patch]
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.OrderStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.admin.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Order status updated", order)
}

// ListUsers godoc
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param search query string false "Email or name"
// @Success 200 {object} models.HATEOASResponse
// @Router /admin/users [get]
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	page, limit := getPaginationParams(c, 10)

	users, total, err := ctrl.admin.ListUsers(c.Request.Context(), page, limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, buildPagedResponse(c, "Users retrieved", users, page, limit, total))
}

// UpdateUserRole godoc
// @Summary Change user role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateRoleRequest true "Role"
// @Success 200 {object} models.Response{data=models.UserWithProfile}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/users/{id}/role [patch]
func (ctrl *AdminController) UpdateUserRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctrl.admin.UpdateUserRole(c.Request.Context(), currentUserID(c), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Role updated", user)
}
