package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// PersistBill writes the bill, its items and the counter increment as
	// one transaction. The bill number is assigned inside the transaction
	// from the per-org counter; on any failure nothing is committed.
	PersistBill(ctx context.Context, numberPrefix string, bill *Bill, items []BillItem) error
	// FindByIdempotencyKey returns nil when no bill carries the key.
	FindByIdempotencyKey(ctx context.Context, orgID snowflake.ID, key string) (*Bill, error)
	GetBill(ctx context.Context, orgID, id snowflake.ID) (*Bill, []BillItem, error)
	ListBills(ctx context.Context, orgID snowflake.ID, limit int) ([]Bill, error)
}
