package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// GetActive returns nil when the product is missing or deactivated.
	GetActive(ctx context.Context, orgID, id snowflake.ID) (*Product, error)
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Product, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListRequest) ([]Product, error)
	Update(ctx context.Context, product *Product) error
}
