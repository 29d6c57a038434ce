package db

// DashboardStats are the read-side aggregates shown on the admin dashboard.
// They are recomputed on demand from orders and ledger entries; the
// projection is never a source of truth.
type DashboardStats struct {
	TotalRevenue   int64                 `json:"total_revenue"`
	PlatformProfit int64                 `json:"platform_profit"`
	PendingProfit  int64                 `json:"pending_profit"`
	PendingPayouts int64                 `json:"pending_payouts"`
	OrderCounts    map[OrderStatus]int64 `json:"order_counts"`
}

// ComputeDashboardStats folds orders and ledger entries into dashboard
// aggregates. The function is pure: running it twice over the same snapshot
// yields identical results.
func ComputeDashboardStats(orders []Order, entries []LedgerEntry) DashboardStats {
	stats := DashboardStats{
		OrderCounts: make(map[OrderStatus]int64),
	}

	for _, order := range orders {
		stats.OrderCounts[order.Status]++
		if order.Status == OrderStatusDelivered {
			stats.TotalRevenue += order.TotalAmount
		}
	}

	for _, e := range entries {
		switch e.Type {
		case LedgerEntryTypeCommission:
			switch e.Status {
			case LedgerEntryStatusCompleted:
				stats.PlatformProfit += e.Amount
			case LedgerEntryStatusHeld:
				stats.PendingProfit += e.Amount
			}
		case LedgerEntryTypePayout:
			if e.Status == LedgerEntryStatusPending {
				stats.PendingPayouts += e.Amount
			}
		}
	}

	return stats
}
