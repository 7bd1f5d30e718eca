package domain

import (
	"context"
	"time"

	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/shopspring/decimal"
)

type Service interface {
	// CreateBill validates the order, snapshots catalog state, computes tax
	// and persists everything as one atomic unit. On success the bill is
	// durable, complete and immutable.
	CreateBill(ctx context.Context, orgID int64, req CreateBillRequest) (*BillResponse, error)
	GetBill(ctx context.Context, orgID int64, id string) (*BillResponse, error)
	// ListBills returns newest-first headers; item lines are omitted.
	ListBills(ctx context.Context, orgID int64, limit int) ([]BillResponse, error)
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CreateBillRequest struct {
	Items              []OrderItem      `json:"items"`
	PaymentMethod      PaymentMethod    `json:"payment_method"`
	ApplyServiceCharge bool             `json:"apply_service_charge"`
	ServiceChargeRate  *decimal.Decimal `json:"service_charge_rate,omitempty"`
	// IdempotencyKey lets callers retry a timed-out CreateBill without
	// risking a double bill. Optional.
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type BillItemResponse struct {
	ID           string                   `json:"id"`
	ProductID    string                   `json:"product_id"`
	ProductName  string                   `json:"product_name"`
	CategoryName string                   `json:"category_name"`
	TaxGroupName string                   `json:"tax_group_name"`
	TaxRate      decimal.Decimal          `json:"tax_rate"`
	IsInclusive  bool                     `json:"is_inclusive"`
	SplitType    taxgroupdomain.SplitType `json:"split_type"`
	Quantity     int64                    `json:"quantity"`
	UnitPrice    decimal.Decimal          `json:"unit_price"`
	LineSubtotal decimal.Decimal          `json:"line_subtotal"`
	CGSTAmount   decimal.Decimal          `json:"cgst_amount"`
	SGSTAmount   decimal.Decimal          `json:"sgst_amount"`
	TaxAmount    decimal.Decimal          `json:"tax_amount"`
	LineTotal    decimal.Decimal          `json:"line_total"`
}

type BillResponse struct {
	ID                     string             `json:"bill_id"`
	BillNumber             string             `json:"bill_number"`
	Subtotal               decimal.Decimal    `json:"subtotal"`
	TaxAmount              decimal.Decimal    `json:"tax_amount"`
	CGSTAmount             decimal.Decimal    `json:"cgst_amount"`
	SGSTAmount             decimal.Decimal    `json:"sgst_amount"`
	ServiceChargeRate      *decimal.Decimal   `json:"service_charge_rate,omitempty"`
	ServiceChargeAmount    *decimal.Decimal   `json:"service_charge_amount,omitempty"`
	ServiceChargeTaxAmount *decimal.Decimal   `json:"service_charge_tax_amount,omitempty"`
	TotalAmount            decimal.Decimal    `json:"total_amount"`
	PaymentMethod          PaymentMethod      `json:"payment_method"`
	Items                  []BillItemResponse `json:"items,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
}
