package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/dinebilllabs/dinebill/internal/cache"
	domain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"gorm.io/gorm"
)

type repository struct {
	db    *gorm.DB
	store *cache.Store
}

func NewRepository(db *gorm.DB, store *cache.Store) domain.Repository {
	return &repository{db: db, store: store}
}

func activeKey(orgID, id snowflake.ID) string {
	return fmt.Sprintf("taxgroup:%d:%d", orgID, id)
}

func codeKey(orgID snowflake.ID, code string) string {
	return fmt.Sprintf("taxgroup:code:%d:%s", orgID, code)
}

func (r *repository) GetActive(ctx context.Context, orgID, id snowflake.ID) (*domain.TaxGroup, error) {
	var cached domain.TaxGroup
	if r.store.Get(ctx, activeKey(orgID, id), &cached) {
		return &cached, nil
	}

	var group domain.TaxGroup
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ? AND is_active = ?", orgID, id, true).
		First(&group).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	r.store.Set(ctx, activeKey(orgID, id), group)
	return &group, nil
}

func (r *repository) GetActiveByCode(ctx context.Context, orgID snowflake.ID, code string) (*domain.TaxGroup, error) {
	var cached domain.TaxGroup
	if r.store.Get(ctx, codeKey(orgID, code), &cached) {
		return &cached, nil
	}

	var group domain.TaxGroup
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND code = ? AND is_active = ?", orgID, code, true).
		First(&group).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	r.store.Set(ctx, codeKey(orgID, code), group)
	return &group, nil
}

func (r *repository) Create(ctx context.Context, group *domain.TaxGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.TaxGroup, error) {
	var group domain.TaxGroup
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&group).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, filter domain.ListRequest) ([]domain.TaxGroup, error) {
	var items []domain.TaxGroup
	stmt := r.db.WithContext(ctx).
		Model(&domain.TaxGroup{}).
		Where("org_id = ?", orgID)

	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	if err := stmt.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, group *domain.TaxGroup) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE tax_groups
		 SET name = ?, rate = ?, split_type = ?, is_inclusive = ?, is_active = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		group.Name,
		group.Rate,
		group.SplitType,
		group.IsInclusive,
		group.IsActive,
		group.UpdatedAt,
		group.OrgID,
		group.ID,
	).Error
	if err != nil {
		return err
	}

	r.store.Delete(ctx, activeKey(group.OrgID, group.ID), codeKey(group.OrgID, group.Code))
	return nil
}
