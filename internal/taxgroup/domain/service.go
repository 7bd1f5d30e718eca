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
	Code     string
	IsActive *bool
}

type CreateRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	SplitType   SplitType       `json:"split_type"`
	IsInclusive bool            `json:"is_inclusive"`
}

type UpdateRequest struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	SplitType   *SplitType       `json:"split_type,omitempty"`
	IsInclusive *bool            `json:"is_inclusive,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

type Response struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	SplitType   SplitType       `json:"split_type"`
	IsInclusive bool            `json:"is_inclusive"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
