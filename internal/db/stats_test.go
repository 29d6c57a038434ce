package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeDashboardStats(t *testing.T) {
	orders := []Order{
		{Status: OrderStatusDelivered, TotalAmount: 90_000},
		{Status: OrderStatusDelivered, TotalAmount: 45_000},
		{Status: OrderStatusPending, TotalAmount: 30_000},
		{Status: OrderStatusCancelled, TotalAmount: 50_000},
		{Status: OrderStatusDisputed, TotalAmount: 70_000},
	}

	entries := []LedgerEntry{
		{Type: LedgerEntryTypeCommission, Status: LedgerEntryStatusCompleted, Amount: 4_000},
		{Type: LedgerEntryTypeCommission, Status: LedgerEntryStatusCompleted, Amount: 2_000},
		{Type: LedgerEntryTypeCommission, Status: LedgerEntryStatusHeld, Amount: 3_500},
		{Type: LedgerEntryTypeCommission, Status: LedgerEntryStatusFailed, Amount: 2_500},
		{Type: LedgerEntryTypePayout, Status: LedgerEntryStatusPending, Amount: 76_000},
		{Type: LedgerEntryTypePayout, Status: LedgerEntryStatusCompleted, Amount: 38_000},
		{Type: LedgerEntryTypePayment, Status: LedgerEntryStatusCompleted, Amount: 90_000},
		{Type: LedgerEntryTypeRefund, Status: LedgerEntryStatusCompleted, Amount: 50_000},
	}

	stats := ComputeDashboardStats(orders, entries)

	// Only delivered orders count toward revenue.
	require.Equal(t, int64(135_000), stats.TotalRevenue)
	require.Equal(t, int64(6_000), stats.PlatformProfit)
	require.Equal(t, int64(3_500), stats.PendingProfit)
	require.Equal(t, int64(76_000), stats.PendingPayouts)

	require.Equal(t, int64(2), stats.OrderCounts[OrderStatusDelivered])
	require.Equal(t, int64(1), stats.OrderCounts[OrderStatusPending])
	require.Equal(t, int64(1), stats.OrderCounts[OrderStatusCancelled])
	require.Equal(t, int64(1), stats.OrderCounts[OrderStatusDisputed])
	require.Zero(t, stats.OrderCounts[OrderStatusConfirmed])
}

func TestComputeDashboardStatsIsPure(t *testing.T) {
	orders := []Order{{Status: OrderStatusDelivered, TotalAmount: 90_000}}
	entries := []LedgerEntry{
		{Type: LedgerEntryTypeCommission, Status: LedgerEntryStatusHeld, Amount: 4_000},
	}

	first := ComputeDashboardStats(orders, entries)
	second := ComputeDashboardStats(orders, entries)
	require.Equal(t, first, second)
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	stats := ComputeDashboardStats(nil, nil)
	require.Zero(t, stats.TotalRevenue)
	require.Zero(t, stats.PlatformProfit)
	require.Zero(t, stats.PendingProfit)
	require.Zero(t, stats.PendingPayouts)
	require.Empty(t, stats.OrderCounts)
}
