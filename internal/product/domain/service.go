package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, orgID int64, req CreateRequest) (*Response, error)
	List(ctx context.Context, orgID int64, req ListRequest) ([]Response, error)
	Update(ctx context.Context, orgID int64, req UpdateRequest) (*Response, error)
	Deactivate(ctx context.Context, orgID int64, id string) (*Response, error)
}

type ListRequest struct {
	Name     string
	Category string
	IsActive *bool
}

type CreateRequest struct {
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxGroupID   string          `json:"tax_group_id"`
	CategoryName string          `json:"category_name"`
}

type UpdateRequest struct {
	ID           string           `json:"id"`
	Name         *string          `json:"name,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	TaxGroupID   *string          `json:"tax_group_id,omitempty"`
	CategoryName *string          `json:"category_name,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

type Response struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxGroupID   string          `json:"tax_group_id"`
	CategoryName string          `json:"category_name"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
