package models

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" binding:"required,min=3"`
	Phone    string `json:"phone" form:"phone" binding:"omitempty,max=20"`
	GuestID  string `json:"guest_id" form:"guest_id" binding:"omitempty,uuid"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	GuestID  string `json:"guest_id" form:"guest_id" binding:"omitempty,uuid"`
}

type UpdateProfileRequest struct {
	FullName   string `json:"full_name" form:"full_name" binding:"omitempty,min=3,max=100"`
	Phone      string `json:"phone" form:"phone" binding:"omitempty,max=20"`
	Line       string `json:"address_line" form:"address_line" binding:"omitempty,max=255"`
	City       string `json:"city" form:"city" binding:"omitempty,max=100"`
	PostalCode string `json:"postal_code" form:"postal_code" binding:"omitempty,max=20"`
	Country    string `json:"country" form:"country" binding:"omitempty,len=2"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ChangeEmailRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer sales_associate admin"`
}

type CartItemRequest struct {
	BookID   int `json:"book_id" binding:"required,gt=0"`
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

type MergeCartRequest struct {
	GuestID string `json:"guest_id" binding:"omitempty,uuid"`
}

type CheckoutPaymentMethodRequest struct {
	PaymentMethodID int `json:"payment_method_id" binding:"required,gt=0"`
}

type CheckoutFinalizeRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type PaymentMethodRequest struct {
	ProcessorToken string `json:"processor_token" binding:"required"`
	Brand          string `json:"brand" binding:"required,max=30"`
	Last4          string `json:"last4" binding:"required,len=4,numeric"`
	ExpMonth       int    `json:"exp_month" binding:"required,min=1,max=12"`
	ExpYear        int    `json:"exp_year" binding:"required,min=2000"`
	IsDefault      bool   `json:"is_default"`
}

type POSLineRequest struct {
	BookID   int `json:"book_id" binding:"required,gt=0"`
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type POSFinalizeRequest struct {
	PaymentType   string `json:"payment_type" binding:"required,oneof=cash card"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
}

type CreateBookRequest struct {
	ISBN               string `json:"isbn" form:"isbn" binding:"required,min=10,max=20"`
	Title              string `json:"title" form:"title" binding:"required"`
	Author             string `json:"author" form:"author" binding:"required"`
	Description        string `json:"description" form:"description"`
	CategoryID         int    `json:"category_id" form:"category_id" binding:"omitempty,gt=0"`
	Price              int    `json:"price" form:"price" binding:"gte=0"`
	Stock              int    `json:"stock" form:"stock" binding:"gte=0"`
	OnSale             bool   `json:"on_sale" form:"on_sale"`
	DiscountPercentage int    `json:"discount_percentage" form:"discount_percentage" binding:"gte=0,lte=100"`
}

// UpdateBookRequest uses pointers so that omitted fields are left unchanged.
type UpdateBookRequest struct {
	Title              *string `json:"title"`
	Author             *string `json:"author"`
	Description        *string `json:"description"`
	CategoryID         *int    `json:"category_id" binding:"omitempty,gte=0"`
	Price              *int    `json:"price" binding:"omitempty,gte=0"`
	OnSale             *bool   `json:"on_sale"`
	DiscountPercentage *int    `json:"discount_percentage" binding:"omitempty,gte=0,lte=100"`
	IsActive           *bool   `json:"is_active"`
}

type StockAdjustmentRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type CategoryRequest struct {
	Name string `json:"name" form:"name" binding:"required,min=3,max=100"`
}

type OrderStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required,oneof=pending paid processing shipped completed cancelled"`
}
