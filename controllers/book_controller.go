package controllers

import (
	"strconv"

	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

// BookController serves the public catalog.
type BookController struct {
	books *services.BookService
}

func NewBookController(books *services.BookService) *BookController {
	return &BookController{books: books}
}

func bookFilterFromQuery(c *gin.Context, page, limit int) models.BookFilter {
	categoryID, _ := strconv.Atoi(c.Query("category_id"))
	onSale, _ := strconv.ParseBool(c.Query("on_sale"))
	return models.BookFilter{
		Page:       page,
		Limit:      limit,
		Search:     c.Query("search"),
		CategoryID: categoryID,
		OnSale:     onSale,
	}
}

// ListBooks godoc
// @Summary List books
// @Description Active books with pagination, search and category filter
// @Tags Books
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Param search query string false "Title, author or ISBN"
// @Param category_id query int false "Category id"
// @Param on_sale query bool false "Only discounted books"
// @Success 200 {object} models.HATEOASResponse
// @Router /books [get]
func (ctrl *BookController) ListBooks(c *gin.Context) {
	page, limit := getPaginationParams(c, 12)
	filter := bookFilterFromQuery(c, page, limit)

	books, total, err := ctrl.books.ListBooks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, buildPagedResponse(c, "Books retrieved", books, page, limit, total))
}

// GetBook godoc
// @Summary Get book detail
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} models.Response{data=models.Book}
// @Failure 404 {object} models.ErrorResponse
// @Router /books/{id} [get]
func (ctrl *BookController) GetBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.books.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Book retrieved", book)
}

// ListCategories godoc
// @Summary List categories
// @Tags Books
// @Produce json
// @Success 200 {object} models.Response{data=[]models.BookCategory}
// @Router /categories [get]
func (ctrl *BookController) ListCategories(c *gin.Context) {
	categories, err := ctrl.books.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Categories retrieved", categories)
}

// BooksByCategory godoc
// @Summary List books in a category
// @Tags Books
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} models.Response{data=[]models.Book}
// @Router /categories/{slug}/books [get]
func (ctrl *BookController) BooksByCategory(c *gin.Context) {
	books, err := ctrl.books.BooksByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Books retrieved", books)
}
