package controllers

import (
	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

// POSController drives the in-store register. Each transaction belongs to
// the associate who opened it.
type POSController struct {
	pos *services.POSService
}

func NewPOSController(pos *services.POSService) *POSController {
	return &POSController{pos: pos}
}

// Open godoc
// @Summary Open register transaction
// @Description Returns the associate's open transaction or starts a new one
// @Tags POS
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Response{data=models.Order}
// @Router /pos/transactions [post]
func (ctrl *POSController) Open(c *gin.Context) {
	order, err := ctrl.pos.Open(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, "Transaction open", order)
}

// Current godoc
// @Summary Current register transaction
// @Tags POS
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /pos/transactions/current [get]
func (ctrl *POSController) Current(c *gin.Context) {
	order, err := ctrl.pos.Current(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Transaction retrieved", order)
}

// AddLine godoc
// @Summary Scan book
// @Tags POS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body models.POSLineRequest true "Book and quantity"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 409 {object} models.ErrorResponse
// @Router /pos/transactions/{id}/lines [post]
func (ctrl *POSController) AddLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.POSLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.pos.AddLine(c.Request.Context(), currentUserID(c), id, req.BookID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Line added", order)
}

// UpdateLine godoc
// @Summary Set line quantity
// @Description Quantity 0 removes the line
// @Tags POS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param bookId path int true "Book ID"
// @Param request body models.CartQuantityRequest true "Quantity"
// @Success 200 {object} models.Response{data=models.Order}
// @Router /pos/transactions/{id}/lines/{bookId} [put]
func (ctrl *POSController) UpdateLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bookID, ok := paramID(c, "bookId")
	if !ok {
		return
	}
	var req models.CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.pos.UpdateLine(c.Request.Context(), currentUserID(c), id, bookID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Line updated", order)
}

// RemoveLine godoc
// @Summary Remove line
// @Tags POS
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param bookId path int true "Book ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Router /pos/transactions/{id}/lines/{bookId} [delete]
func (ctrl *POSController) RemoveLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bookID, ok := paramID(c, "bookId")
	if !ok {
		return
	}

	order, err := ctrl.pos.RemoveLine(c.Request.Context(), currentUserID(c), id, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Line removed", order)
}

// Finalize godoc
// @Summary Take payment
// @Description Completes the sale and decrements stock. A receipt is emailed when customer_email is set.
// @Tags POS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body models.POSFinalizeRequest true "Payment"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 409 {object} models.ErrorResponse
// @Router /pos/transactions/{id}/finalize [post]
func (ctrl *POSController) Finalize(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.POSFinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.pos.Finalize(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Sale completed", order)
}

// Cancel godoc
// @Summary Void transaction
// @Tags POS
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Router /pos/transactions/{id}/cancel [post]
func (ctrl *POSController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.pos.Cancel(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Transaction cancelled", order)
}

// Receipt godoc
// @Summary Print receipt
// @Tags POS
// @Produce plain
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {string} string "Receipt text"
// @Failure 409 {object} models.ErrorResponse
// @Router /pos/transactions/{id}/receipt [get]
func (ctrl *POSController) Receipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	receipt, err := ctrl.pos.GetReceipt(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(200, receipt)
}
