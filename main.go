package main

import (
	_ "bookstore/docs"

	"bookstore/cmd"
)

// @title Bookstore API
// @version 1.0
// @description Online storefront, shopping cart, checkout and in-store register for the bookstore.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cmd.Execute()
}
