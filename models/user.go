package models

import "time"

const (
	RoleCustomer       = "customer"
	RoleSalesAssociate = "sales_associate"
	RoleAdmin          = "admin"
)

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserProfile struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Line       string    `json:"address_line"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	PhotoURL   string    `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p UserProfile) Address() ShippingAddress {
	return ShippingAddress{
		FullName:   p.FullName,
		Phone:      p.Phone,
		Line:       p.Line,
		City:       p.City,
		PostalCode: p.PostalCode,
		Country:    p.Country,
	}
}

type UserWithProfile struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Line       string    `json:"address_line"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	PhotoURL   string    `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
}
