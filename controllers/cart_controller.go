package controllers

import (
	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

// CartController works for both guests (X-Guest-ID) and signed-in users.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// GetCart godoc
// @Summary Get cart
// @Tags Cart
// @Produce json
// @Param X-Guest-ID header string false "Guest cart id"
// @Success 200 {object} models.Response{data=models.CartView}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.carts.GetCart(c.Request.Context(), cartOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Cart retrieved", cart)
}

// AddItem godoc
// @Summary Add book to cart
// @Description Adds to the quantity already in the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Guest-ID header string false "Guest cart id"
// @Param request body models.CartItemRequest true "Book and quantity"
// @Success 200 {object} models.Response{data=models.CartView}
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.carts.AddItem(c.Request.Context(), cartOwner(c), req.BookID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Item added to cart", cart)
}

// UpdateItem godoc
// @Summary Set cart line quantity
// @Description Quantity 0 removes the line
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Guest-ID header string false "Guest cart id"
// @Param bookId path int true "Book ID"
// @Param request body models.CartQuantityRequest true "Quantity"
// @Success 200 {object} models.Response{data=models.CartView}
// @Router /cart/items/{bookId} [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	bookID, ok := paramID(c, "bookId")
	if !ok {
		return
	}
	var req models.CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.carts.UpdateQuantity(c.Request.Context(), cartOwner(c), bookID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Cart updated", cart)
}

// RemoveItem godoc
// @Summary Remove cart line
// @Tags Cart
// @Produce json
// @Param X-Guest-ID header string false "Guest cart id"
// @Param bookId path int true "Book ID"
// @Success 200 {object} models.Response{data=models.CartView}
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{bookId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	bookID, ok := paramID(c, "bookId")
	if !ok {
		return
	}

	cart, err := ctrl.carts.RemoveItem(c.Request.Context(), cartOwner(c), bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Item removed", cart)
}

// ClearCart godoc
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Param X-Guest-ID header string false "Guest cart id"
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.carts.Clear(c.Request.Context(), cartOwner(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Cart cleared", nil)
}

// MergeCart godoc
// @Summary Merge guest cart
// @Description Moves a guest cart into the signed-in user's cart
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest cart id"
// @Param request body models.MergeCartRequest false "Guest cart id"
// @Success 200 {object} models.Response{data=models.CartView}
// @Router /cart/merge [post]
func (ctrl *CartController) MergeCart(c *gin.Context) {
	var req models.MergeCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	guestID := req.GuestID
	if guestID == "" {
		guestID = c.GetString("guest_id")
	}

	cart, err := ctrl.carts.MergeGuestCart(c.Request.Context(), currentUserID(c), guestID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Cart merged", cart)
}
