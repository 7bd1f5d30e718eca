package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/dinebilllabs/dinebill/internal/billing/domain"
	"github.com/dinebilllabs/dinebill/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupReporting(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&billingdomain.Bill{}, &billingdomain.BillItem{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := New(Params{
		Log:        zap.NewNop(),
		DB:         conn,
		BillingCfg: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})
	return svc, conn, node
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedBill(t *testing.T, conn *gorm.DB, node *snowflake.Node, orgID snowflake.ID, at time.Time, method billingdomain.PaymentMethod, subtotal, tax, scAmount, scTax string) snowflake.ID {
	t.Helper()
	total := d(subtotal).Add(d(tax)).Add(d(scAmount)).Add(d(scTax))
	bill := &billingdomain.Bill{
		ID:                     node.Generate(),
		OrgID:                  orgID,
		BillNumber:             "BILL-" + node.Generate().String(),
		Subtotal:               d(subtotal),
		TaxAmount:              d(tax),
		CGSTAmount:             d(tax).Div(decimal.NewFromInt(2)).Round(2),
		SGSTAmount:             d(tax).Sub(d(tax).Div(decimal.NewFromInt(2)).Round(2)),
		ServiceChargeAmount:    d(scAmount),
		ServiceChargeTaxAmount: d(scTax),
		TotalAmount:            total,
		PaymentMethod:          method,
		CreatedAt:              at,
	}
	require.NoError(t, conn.Create(bill).Error)
	return bill.ID
}

func seedItem(t *testing.T, conn *gorm.DB, node *snowflake.Node, orgID, billID snowflake.ID, groupName, rate, taxable, tax string) {
	t.Helper()
	item := &billingdomain.BillItem{
		ID:           node.Generate(),
		BillID:       billID,
		OrgID:        orgID,
		ProductID:    node.Generate(),
		ProductName:  "Item",
		CategoryName: "Category",
		TaxGroupName: groupName,
		TaxRate:      d(rate),
		SplitType:    "CGST_SGST",
		Quantity:     1,
		UnitPrice:    d(taxable),
		LineSubtotal: d(taxable),
		CGSTAmount:   d(tax).Div(decimal.NewFromInt(2)).Round(2),
		SGSTAmount:   d(tax).Sub(d(tax).Div(decimal.NewFromInt(2)).Round(2)),
		TaxAmount:    d(tax),
		LineTotal:    d(taxable).Add(d(tax)),
	}
	require.NoError(t, conn.Create(item).Error)
}

func TestSalesSummary(t *testing.T) {
	svc, conn, node := setupReporting(t)
	orgID := node.Generate()
	otherOrg := node.Generate()

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	seedBill(t, conn, node, orgID, day.Add(10*time.Hour), billingdomain.PaymentCash, "200.00", "10.00", "0", "0")
	seedBill(t, conn, node, orgID, day.Add(12*time.Hour), billingdomain.PaymentUPI, "350.00", "17.50", "35.00", "1.75")
	seedBill(t, conn, node, orgID, day.Add(14*time.Hour), billingdomain.PaymentCash, "100.00", "5.00", "0", "0")
	// outside the window and outside the org
	seedBill(t, conn, node, orgID, day.Add(30*time.Hour), billingdomain.PaymentCard, "999.00", "0", "0", "0")
	seedBill(t, conn, node, otherOrg, day.Add(10*time.Hour), billingdomain.PaymentCash, "500.00", "25.00", "0", "0")

	summary, err := svc.SalesSummary(context.Background(), orgID, day, day.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.BillCount)
	assert.True(t, summary.Subtotal.Equal(d("650.00")), "subtotal: %s", summary.Subtotal)
	assert.True(t, summary.TaxAmount.Equal(d("32.50")), "tax: %s", summary.TaxAmount)
	assert.True(t, summary.ServiceCharge.Equal(d("35.00")), "service charge: %s", summary.ServiceCharge)
	assert.True(t, summary.ServiceChargeTax.Equal(d("1.75")), "service charge tax: %s", summary.ServiceChargeTax)
	assert.True(t, summary.GrossSales.Equal(d("719.25")), "gross: %s", summary.GrossSales)

	require.Len(t, summary.ByPaymentMethod, 2)
	assert.Equal(t, "CASH", summary.ByPaymentMethod[0].PaymentMethod)
	assert.Equal(t, int64(2), summary.ByPaymentMethod[0].BillCount)
	assert.True(t, summary.ByPaymentMethod[0].Amount.Equal(d("315.00")))
	assert.Equal(t, "UPI", summary.ByPaymentMethod[1].PaymentMethod)
	assert.True(t, summary.ByPaymentMethod[1].Amount.Equal(d("404.25")))
}

func TestSalesSummaryEmptyWindow(t *testing.T) {
	svc, _, node := setupReporting(t)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	summary, err := svc.SalesSummary(context.Background(), node.Generate(), day, day.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Zero(t, summary.BillCount)
	assert.True(t, summary.GrossSales.IsZero())
	assert.Empty(t, summary.ByPaymentMethod)
}

func TestTaxBreakdown(t *testing.T) {
	svc, conn, node := setupReporting(t)
	orgID := node.Generate()

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	b1 := seedBill(t, conn, node, orgID, day.Add(10*time.Hour), billingdomain.PaymentCash, "300.00", "25.00", "30.00", "1.50")
	seedItem(t, conn, node, orgID, b1, "GST 5%", "5", "200.00", "10.00")
	seedItem(t, conn, node, orgID, b1, "GST 18%", "18", "100.00", "15.00")
	b2 := seedBill(t, conn, node, orgID, day.Add(12*time.Hour), billingdomain.PaymentUPI, "200.00", "10.00", "0", "0")
	seedItem(t, conn, node, orgID, b2, "GST 5%", "5", "200.00", "10.00")

	breakdown, err := svc.TaxBreakdown(context.Background(), orgID, day, day.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, breakdown.Groups, 2)
	assert.Equal(t, "GST 18%", breakdown.Groups[0].TaxGroupName)
	assert.True(t, breakdown.Groups[0].TaxableValue.Equal(d("100.00")))
	assert.True(t, breakdown.Groups[0].TaxAmount.Equal(d("15.00")))
	assert.Equal(t, "GST 5%", breakdown.Groups[1].TaxGroupName)
	assert.True(t, breakdown.Groups[1].TaxableValue.Equal(d("400.00")))
	assert.True(t, breakdown.Groups[1].TaxAmount.Equal(d("20.00")))

	assert.True(t, breakdown.ServiceChargeTax.Equal(d("1.50")))
	assert.True(t, breakdown.TotalTax.Equal(d("36.50")), "total tax: %s", breakdown.TotalTax)
}

func TestReportRangeValidation(t *testing.T) {
	svc, _, node := setupReporting(t)
	orgID := node.Generate()

	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	_, err := svc.SalesSummary(context.Background(), orgID, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.SalesSummary(context.Background(), orgID, time.Time{}, now)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.TaxBreakdown(context.Background(), orgID, now.AddDate(-2, 0, 0), now)
	assert.ErrorIs(t, err, ErrRangeTooWide)

	_, err = svc.SalesSummary(context.Background(), 0, now, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
