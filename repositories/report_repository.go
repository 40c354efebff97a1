package repositories

import (
	"context"

	"bookstore/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// revenueStatuses are the order statuses that count as money taken.
var revenueStatuses = []string{
	models.OrderStatusPaid, models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusCompleted,
}

func (r *ReportRepository) Dashboard(ctx context.Context, lowStockLimit, topN int) (*models.DashboardReport, error) {
	report := &models.DashboardReport{
		OrdersByStatus:   map[string]int{},
		RevenueByChannel: map[string]int{},
		LowStock:         []models.Book{},
		TopSellers:       []models.TopSeller{},
	}

	rows, err := r.db.Query(ctx, `
		SELECT status, channel, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders GROUP BY status, channel`)
	if err != nil {
		return nil, err
	}
	counted := map[string]bool{}
	for _, s := range revenueStatuses {
		counted[s] = true
	}
	for rows.Next() {
		var status, channel string
		var count, total int
		if err := rows.Scan(&status, &channel, &count, &total); err != nil {
			rows.Close()
			return nil, err
		}
		report.OrdersByStatus[status] += count
		if counted[status] {
			report.OrderCount += count
			report.Revenue += total
			report.RevenueByChannel[channel] += total
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lowRows, err := r.db.Query(ctx, "SELECT "+bookColumns+" "+bookFrom+`
		WHERE b.is_active = TRUE AND b.stock <= $1 ORDER BY b.stock, b.title`, lowStockLimit)
	if err != nil {
		return nil, err
	}
	for lowRows.Next() {
		b, err := scanBook(lowRows)
		if err != nil {
			lowRows.Close()
			return nil, err
		}
		report.LowStock = append(report.LowStock, *b)
	}
	lowRows.Close()
	if err := lowRows.Err(); err != nil {
		return nil, err
	}

	topRows, err := r.db.Query(ctx, `
		SELECT oi.book_id, MAX(oi.title), SUM(oi.quantity)::INT, SUM(oi.unit_price * oi.quantity)::INT
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE o.status = ANY($1)
		GROUP BY oi.book_id
		ORDER BY SUM(oi.quantity) DESC, oi.book_id
		LIMIT $2`, revenueStatuses, topN)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()
	for topRows.Next() {
		var ts models.TopSeller
		if err := topRows.Scan(&ts.BookID, &ts.Title, &ts.Quantity, &ts.Revenue); err != nil {
			return nil, err
		}
		report.TopSellers = append(report.TopSellers, ts)
	}
	return report, topRows.Err()
}
