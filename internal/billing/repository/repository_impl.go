package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	domain "github.com/dinebilllabs/dinebill/internal/billing/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// PersistBill runs the whole write inside one transaction. The counter upsert
// takes a row lock on the org's counter until commit, so concurrent calls for
// the same org serialize on number assignment and can neither duplicate nor
// skip a bill number.
func (r *repository) PersistBill(ctx context.Context, numberPrefix string, bill *domain.Bill, items []domain.BillItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		err := tx.Raw(
			`INSERT INTO bill_counters (org_id, last_number)
			 VALUES (?, 1)
			 ON CONFLICT (org_id) DO UPDATE SET last_number = bill_counters.last_number + 1
			 RETURNING last_number`,
			bill.OrgID,
		).Scan(&seq).Error
		if err != nil {
			return fmt.Errorf("assign bill number: %w", err)
		}

		bill.BillNumber = fmt.Sprintf("%s-%06d", numberPrefix, seq)

		if err := tx.Create(bill).Error; err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}

		for i := range items {
			items[i].BillID = bill.ID
			items[i].OrgID = bill.OrgID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert bill items: %w", err)
		}

		return nil
	})
}

func (r *repository) FindByIdempotencyKey(ctx context.Context, orgID snowflake.ID, key string) (*domain.Bill, error) {
	var bill domain.Bill
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND idempotency_key = ?", orgID, key).
		First(&bill).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repository) GetBill(ctx context.Context, orgID, id snowflake.ID) (*domain.Bill, []domain.BillItem, error) {
	var bill domain.Bill
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&bill).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var items []domain.BillItem
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", bill.ID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, nil, err
	}

	return &bill, items, nil
}

func (r *repository) ListBills(ctx context.Context, orgID snowflake.ID, limit int) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}
