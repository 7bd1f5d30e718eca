package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ServiceChargeCode designates the reserved, always-exclusive tax group used
// for order-level service charges. Do not rename or repurpose the code once
// bills reference it.
const ServiceChargeCode = "SERVICE_CHARGE_GST"

// SplitType represents how a tax amount is itemized on a bill line.
type SplitType string

const (
	SplitCGSTSGST SplitType = "CGST_SGST"
	SplitNone     SplitType = "NONE"
)

// TaxGroup is an org-scoped tax policy. Mutable through admin flows; billing
// only ever copies its fields into bill lines, never references it live.
type TaxGroup struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:ux_tax_groups_org_code"`

	Code        string          `gorm:"type:text;not null;uniqueIndex:ux_tax_groups_org_code"`
	Name        string          `gorm:"type:text;not null"`
	Rate        decimal.Decimal `gorm:"type:numeric(5,2);not null"` // percent, 0-100
	SplitType   SplitType       `gorm:"column:split_type;type:text;not null"`
	IsInclusive bool            `gorm:"column:is_inclusive;not null;default:false"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxGroup) TableName() string { return "tax_groups" }

func (t *TaxGroup) Validate() error {
	if t.Code == "" {
		return ErrInvalidCode
	}
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.Rate.IsNegative() || t.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidRate
	}
	if t.SplitType != SplitCGSTSGST && t.SplitType != SplitNone {
		return ErrInvalidSplitType
	}
	// The service-charge group backs order-level charges, which are always
	// computed tax-exclusive.
	if t.Code == ServiceChargeCode && t.IsInclusive {
		return ErrServiceChargeInclusive
	}
	return nil
}
