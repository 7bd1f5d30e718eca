package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Product is a sellable menu item. Mutable through admin flows; billing only
// ever copies its fields into bill lines at order time.
type Product struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	Name         string          `gorm:"type:text;not null"`
	SellingPrice decimal.Decimal `gorm:"column:selling_price;type:numeric(12,2);not null"`
	TaxGroupID   snowflake.ID    `gorm:"column:tax_group_id;not null;index"`
	CategoryName string          `gorm:"column:category_name;type:text;not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.SellingPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if p.TaxGroupID == 0 {
		return ErrInvalidTaxGroup
	}
	return nil
}
