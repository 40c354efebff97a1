package controllers

import (
	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

// InventoryController is the back-office side of the catalog.
type InventoryController struct {
	books *services.BookService
}

func NewInventoryController(books *services.BookService) *InventoryController {
	return &InventoryController{books: books}
}

// ListBooks godoc
// @Summary List all books (admin)
// @Description Includes inactive books
// @Tags Admin Inventory
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Title, author or ISBN"
// @Param category_id query int false "Category id"
// @Success 200 {object} models.HATEOASResponse
// @Router /admin/books [get]
func (ctrl *InventoryController) ListBooks(c *gin.Context) {
	page, limit := getPaginationParams(c, 20)
	filter := bookFilterFromQuery(c, page, limit)
	filter.IncludeInactive = true

	books, total, err := ctrl.books.ListBooks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, buildPagedResponse(c, "Books retrieved", books, page, limit, total))
}

// GetBook godoc
// @Summary Get book (admin)
// @Tags Admin Inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} models.Response{data=models.Book}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/books/{id} [get]
func (ctrl *InventoryController) GetBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.books.GetBookAdmin(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Book retrieved", book)
}

// CreateBook godoc
// @Summary Create book
// @Tags Admin Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateBookRequest true "Book"
// @Success 201 {object} models.Response{data=models.Book}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/books [post]
func (ctrl *InventoryController) CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	book, err := ctrl.books.CreateBook(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, "Book created", book)
}

// UpdateBook godoc
// @Summary Update book
// @Tags Admin Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body models.UpdateBookRequest true "Changed fields"
// @Success 200 {object} models.Response{data=models.Book}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/books/{id} [patch]
func (ctrl *InventoryController) UpdateBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	book, err := ctrl.books.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Book updated", book)
}

// DeactivateBook godoc
// @Summary Deactivate book
// @Description Hides the book from the catalog; order history keeps it
// @Tags Admin Inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} models.Response
// @Router /admin/books/{id} [delete]
func (ctrl *InventoryController) DeactivateBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.books.DeactivateBook(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Book deactivated", nil)
}

// AdjustStock godoc
// @Summary Adjust stock
// @Description Adds delta (may be negative) to the on-hand count
// @Tags Admin Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body models.StockAdjustmentRequest true "Delta"
// @Success 200 {object} models.Response{data=models.Book}
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/books/{id}/stock [post]
func (ctrl *InventoryController) AdjustStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	book, err := ctrl.books.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Stock adjusted", book)
}

// UploadCover godoc
// @Summary Upload cover image
// @Tags Admin Inventory
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param cover formData file true "Cover image"
// @Success 200 {object} models.Response{data=models.Book}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/books/{id}/cover [post]
func (ctrl *InventoryController) UploadCover(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("cover")
	if err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Cover file is required"})
		return
	}

	book, err := ctrl.books.UploadCover(c.Request.Context(), id, file)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Cover uploaded", book)
}

// CreateCategory godoc
// @Summary Create category
// @Tags Admin Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CategoryRequest true "Category"
// @Success 201 {object} models.Response{data=models.BookCategory}
// @Router /admin/categories [post]
func (ctrl *InventoryController) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := ctrl.books.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, "Category created", category)
}

// UpdateCategory godoc
// @Summary Update category
// @Tags Admin Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body models.CategoryRequest true "Category"
// @Success 200 {object} models.Response{data=models.BookCategory}
// @Router /admin/categories/{id} [patch]
func (ctrl *InventoryController) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := ctrl.books.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Category updated", category)
}

// DeleteCategory godoc
// @Summary Delete category
// @Tags Admin Inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} models.Response
// @Router /admin/categories/{id} [delete]
func (ctrl *InventoryController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.books.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Category deleted", nil)
}
