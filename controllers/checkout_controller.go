package controllers

import (
	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Start godoc
// @Summary Start checkout
// @Description Opens a checkout session for the current cart, replacing any earlier one
// @Tags Checkout
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Response{data=models.CheckoutSession}
// @Failure 400 {object} models.ErrorResponse
// @Router /checkout [post]
func (ctrl *CheckoutController) Start(c *gin.Context) {
	session, err := ctrl.checkout.Start(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, "Checkout started", session)
}

// Get godoc
// @Summary Get checkout session
// @Tags Checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.CheckoutSession}
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout [get]
func (ctrl *CheckoutController) Get(c *gin.Context) {
	session, err := ctrl.checkout.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Checkout retrieved", session)
}

// SetAddress godoc
// @Summary Set shipping address
// @Tags Checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ShippingAddress true "Shipping address"
// @Success 200 {object} models.Response{data=models.CheckoutSession}
// @Router /checkout/address [put]
func (ctrl *CheckoutController) SetAddress(c *gin.Context) {
	var req models.ShippingAddress
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ctrl.checkout.SetAddress(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Shipping address saved", session)
}

// SetPaymentMethod godoc
// @Summary Choose saved payment method
// @Tags Checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CheckoutPaymentMethodRequest true "Payment method"
// @Success 200 {object} models.Response{data=models.CheckoutSession}
// @Router /checkout/payment-method [put]
func (ctrl *CheckoutController) SetPaymentMethod(c *gin.Context) {
	var req models.CheckoutPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ctrl.checkout.SetPaymentMethod(c.Request.Context(), currentUserID(c), req.PaymentMethodID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Payment method saved", session)
}

// Review godoc
// @Summary Review checkout
// @Tags Checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.CheckoutReview}
// @Router /checkout/review [get]
func (ctrl *CheckoutController) Review(c *gin.Context) {
	review, err := ctrl.checkout.Review(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Checkout review", review)
}

// Confirm godoc
// @Summary Confirm and create payment
// @Description Creates the payment intent and returns its client secret
// @Tags Checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.CheckoutConfirmation}
// @Failure 502 {object} models.ErrorResponse
// @Router /checkout/confirm [post]
func (ctrl *CheckoutController) Confirm(c *gin.Context) {
	confirmation, err := ctrl.checkout.Confirm(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Payment created", confirmation)
}

// Finalize godoc
// @Summary Finalize order
// @Description Records the order after the payment has succeeded. Safe to repeat.
// @Tags Checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CheckoutFinalizeRequest true "Payment intent"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 402 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /checkout/finalize [post]
func (ctrl *CheckoutController) Finalize(c *gin.Context) {
	var req models.CheckoutFinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.checkout.Finalize(c.Request.Context(), currentUserID(c), req.PaymentIntentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, "Order placed", order)
}

// Cancel godoc
// @Summary Cancel checkout
// @Tags Checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Router /checkout [delete]
func (ctrl *CheckoutController) Cancel(c *gin.Context) {
	if err := ctrl.checkout.Cancel(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Checkout cancelled", nil)
}
