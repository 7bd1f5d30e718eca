package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// GetActive returns nil when the group is missing or deactivated.
	GetActive(ctx context.Context, orgID, id snowflake.ID) (*TaxGroup, error)
	// GetActiveByCode resolves reserved groups such as SERVICE_CHARGE_GST.
	GetActiveByCode(ctx context.Context, orgID snowflake.ID, code string) (*TaxGroup, error)
	Create(ctx context.Context, group *TaxGroup) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*TaxGroup, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListRequest) ([]TaxGroup, error)
	Update(ctx context.Context, group *TaxGroup) error
}
