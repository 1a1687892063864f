package cryptobook

import (
	"testing"
	"time"

	"github.com/etnz/cryptobook/date"
)

func TestNewDashboard(t *testing.T) {
	today := day(time.September, 10)
	records := []Record{
		{ID: "1", Owner: "hassan", Type: TypeFiatPurchase, Date: day(time.September, 10)},
		{ID: "2", Owner: "hassan", Type: TypeCryptoPurchase, Date: day(time.September, 10)},
		{ID: "3", Owner: "abbas", Type: TypeSale, Date: day(time.September, 4)},
		{ID: "4", Owner: "abbas", Type: TypeSale, Date: day(time.September, 3)}, // 8 days ago
		{ID: "5", Owner: "shahla", Type: TypeTransfer},
	}
	d := NewDashboard(records, today)

	if d.Total != 5 || d.Purchases != 2 || d.Sales != 2 || d.Owners != 3 {
		t.Errorf("NewDashboard() counts = %d/%d/%d/%d, want 5/2/2/3", d.Total, d.Purchases, d.Sales, d.Owners)
	}
	if len(d.Recent) != DashboardDays {
		t.Fatalf("NewDashboard() has %d recent days, want %d", len(d.Recent), DashboardDays)
	}
	if first := d.Recent[0]; first.Date != date.New(2025, time.September, 4) || first.Counts[TypeSale] != 1 {
		t.Errorf("first recent day = %v %v", first.Date, first.Counts)
	}
	if last := d.Recent[DashboardDays-1]; last.Date != today || last.Total() != 2 {
		t.Errorf("last recent day = %v with %d transactions, want %v with 2", last.Date, last.Total(), today)
	}
}
