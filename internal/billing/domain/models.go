// Package domain contains persistence models for billing. Bill and BillItem
// rows are write-once: they are created in a single transaction at checkout
// and never updated or deleted afterwards. Catalog fields are copied in
// field-by-field so later catalog edits cannot alter historical bills.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates accepted tender types.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCard PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard:
		return true
	default:
		return false
	}
}

// Bill is the committed header of one checkout. TotalAmount always equals
// Subtotal + ServiceChargeAmount + TaxAmount + ServiceChargeTaxAmount, where
// the service-charge component is tracked separately from item lines so
// reports can distinguish item tax from service-charge tax.
type Bill struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	OrgID      snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:ux_bills_org_number;uniqueIndex:ux_bills_org_idem"`
	BillNumber string       `gorm:"column:bill_number;type:text;not null;uniqueIndex:ux_bills_org_number"`

	Subtotal   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TaxAmount  decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	CGSTAmount decimal.Decimal `gorm:"column:cgst_amount;type:numeric(12,2);not null"`
	SGSTAmount decimal.Decimal `gorm:"column:sgst_amount;type:numeric(12,2);not null"`

	ServiceChargeRate      *decimal.Decimal `gorm:"column:service_charge_rate;type:numeric(5,2)"`
	ServiceChargeAmount    decimal.Decimal  `gorm:"column:service_charge_amount;type:numeric(12,2);not null;default:0"`
	ServiceChargeTaxAmount decimal.Decimal  `gorm:"column:service_charge_tax_amount;type:numeric(12,2);not null;default:0"`
	ServiceChargeGroupName *string          `gorm:"column:service_charge_group_name;type:text"`

	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"column:payment_method;type:text;not null"`

	IdempotencyKey *string `gorm:"column:idempotency_key;type:text;uniqueIndex:ux_bills_org_idem"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Bill) TableName() string { return "bills" }

// BillItem is one write-once bill line carrying a full snapshot of the
// product and tax-group state read at order time.
// Invariants on every persisted row:
//
//	CGSTAmount + SGSTAmount == TaxAmount  (when SplitType is CGST_SGST; both zero otherwise)
//	LineSubtotal + TaxAmount == LineTotal
type BillItem struct {
	ID     snowflake.ID `gorm:"primaryKey"`
	BillID snowflake.ID `gorm:"column:bill_id;not null;index"`
	OrgID  snowflake.ID `gorm:"column:org_id;not null;index"`

	ProductID    snowflake.ID              `gorm:"column:product_id;not null"`
	ProductName  string                    `gorm:"column:product_name;type:text;not null"`
	CategoryName string                    `gorm:"column:category_name;type:text;not null"`
	TaxGroupName string                    `gorm:"column:tax_group_name;type:text;not null"`
	TaxRate      decimal.Decimal           `gorm:"column:tax_rate;type:numeric(5,2);not null"`
	IsInclusive  bool                      `gorm:"column:is_inclusive;not null"`
	SplitType    taxgroupdomain.SplitType  `gorm:"column:split_type;type:text;not null"`

	Quantity     int64           `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineSubtotal decimal.Decimal `gorm:"column:line_subtotal;type:numeric(12,2);not null"`
	CGSTAmount   decimal.Decimal `gorm:"column:cgst_amount;type:numeric(12,2);not null"`
	SGSTAmount   decimal.Decimal `gorm:"column:sgst_amount;type:numeric(12,2);not null"`
	TaxAmount    decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BillItem) TableName() string { return "bill_items" }

// BillCounter backs the per-org bill-number sequence. It is mutated only by
// a transactional upsert inside the bill-persistence transaction, never in
// application memory.
type BillCounter struct {
	OrgID      snowflake.ID `gorm:"column:org_id;primaryKey"`
	LastNumber int64        `gorm:"column:last_number;not null"`
}

func (BillCounter) TableName() string { return "bill_counters" }
