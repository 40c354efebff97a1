package models

import "time"

type BookCategory struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID                 int       `json:"id"`
	ISBN               string    `json:"isbn"`
	Title              string    `json:"title"`
	Author             string    `json:"author"`
	Description        string    `json:"description"`
	CategoryID         int       `json:"category_id,omitempty"`
	CategoryName       string    `json:"category_name,omitempty"`
	Price              int       `json:"price"`
	SalePrice          int       `json:"sale_price"`
	Stock              int       `json:"stock"`
	OnSale             bool      `json:"on_sale"`
	DiscountPercentage int       `json:"discount_percentage"`
	CoverURL           string    `json:"cover_url"`
	CoverPublicID      string    `json:"-"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type BookFilter struct {
	Page       int
	Limit      int
	Search     string
	CategoryID int
	OnSale     bool
	// IncludeInactive is only honoured for back-office listings.
	IncludeInactive bool
}
