package controllers

import (
	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

// AccountController covers the customer's saved cards and order history.
type AccountController struct {
	account *services.AccountService
}

func NewAccountController(account *services.AccountService) *AccountController {
	return &AccountController{account: account}
}

// ListPaymentMethods godoc
// @Summary List saved payment methods
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=[]models.PaymentMethod}
// @Router /account/payment-methods [get]
func (ctrl *AccountController) ListPaymentMethods(c *gin.Context) {
	methods, err := ctrl.account.ListPaymentMethods(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Payment methods retrieved", methods)
}

// AddPaymentMethod godoc
// @Summary Save payment method
// @Description Stores the processor token and card display fields only
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PaymentMethodRequest true "Payment method"
// @Success 201 {object} models.Response{data=models.PaymentMethod}
// @Router /account/payment-methods [post]
func (ctrl *AccountController) AddPaymentMethod(c *gin.Context) {
	var req models.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	method, err := ctrl.account.AddPaymentMethod(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, "Payment method saved", method)
}

// DeletePaymentMethod godoc
// @Summary Delete payment method
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment method ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /account/payment-methods/{id} [delete]
func (ctrl *AccountController) DeletePaymentMethod(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.account.DeletePaymentMethod(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Payment method deleted", nil)
}

// SetDefaultPaymentMethod godoc
// @Summary Make payment method the default
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment method ID"
// @Success 200 {object} models.Response
// @Router /account/payment-methods/{id}/default [put]
func (ctrl *AccountController) SetDefaultPaymentMethod(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.account.SetDefaultPaymentMethod(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Default payment method updated", nil)
}

// ListOrders godoc
// @Summary Order history
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=[]models.OrderSummary}
// @Router /orders [get]
func (ctrl *AccountController) ListOrders(c *gin.Context) {
	orders, err := ctrl.account.ListOrders(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Orders retrieved", orders)
}

// GetOrder godoc
// @Summary Order detail
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *AccountController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.account.GetOrder(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Order retrieved", order)
}
