package models

type TopSeller struct {
	BookID   int    `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Revenue  int    `json:"revenue"`
}

type DashboardReport struct {
	Revenue          int            `json:"revenue"`
	OrderCount       int            `json:"order_count"`
	OrdersByStatus   map[string]int `json:"orders_by_status"`
	RevenueByChannel map[string]int `json:"revenue_by_channel"`
	LowStock         []Book         `json:"low_stock"`
	TopSellers       []TopSeller    `json:"top_sellers"`
}
