package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/dinebilllabs/dinebill/internal/cache"
	domain "github.com/dinebilllabs/dinebill/internal/product/domain"
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
	return fmt.Sprintf("product:%d:%d", orgID, id)
}

func (r *repository) GetActive(ctx context.Context, orgID, id snowflake.ID) (*domain.Product, error) {
	var cached domain.Product
	if r.store.Get(ctx, activeKey(orgID, id), &cached) {
		return &cached, nil
	}

	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ? AND is_active = ?", orgID, id, true).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	r.store.Set(ctx, activeKey(orgID, id), product)
	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, filter domain.ListRequest) ([]domain.Product, error) {
	var items []domain.Product
	stmt := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("org_id = ?", orgID)

	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		stmt = stmt.Where("category_name = ?", filter.Category)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, product *domain.Product) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, selling_price = ?, tax_group_id = ?, category_name = ?, is_active = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		product.Name,
		product.SellingPrice,
		product.TaxGroupID,
		product.CategoryName,
		product.IsActive,
		product.UpdatedAt,
		product.OrgID,
		product.ID,
	).Error
	if err != nil {
		return err
	}

	r.store.Delete(ctx, activeKey(product.OrgID, product.ID))
	return nil
}
