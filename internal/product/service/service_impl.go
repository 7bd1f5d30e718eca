package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinebilllabs/dinebill/internal/product/domain"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	TaxGroups taxgroupdomain.Repository
}

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	taxGroups taxgroupdomain.Repository
	genID     *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("product.service"),
		repo:      p.Repo,
		taxGroups: p.TaxGroups,
		genID:     p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, orgID int64, req domain.CreateRequest) (*domain.Response, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	taxGroupID, err := snowflake.ParseString(strings.TrimSpace(req.TaxGroupID))
	if err != nil {
		return nil, domain.ErrInvalidTaxGroup
	}
	group, err := s.taxGroups.GetActive(ctx, snowflake.ID(orgID), taxGroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrInvalidTaxGroup
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           s.genID.Generate(),
		OrgID:        snowflake.ID(orgID),
		Name:         strings.TrimSpace(req.Name),
		SellingPrice: req.SellingPrice,
		TaxGroupID:   taxGroupID,
		CategoryName: strings.TrimSpace(req.CategoryName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("id", product.ID.String()),
		zap.String("name", product.Name),
	)
	resp := toResponse(product)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, orgID int64, req domain.ListRequest) ([]domain.Response, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.List(ctx, snowflake.ID(orgID), domain.ListRequest{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, orgID int64, req domain.UpdateRequest) (*domain.Response, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, snowflake.ID(orgID), id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.TaxGroupID != nil {
		taxGroupID, err := snowflake.ParseString(strings.TrimSpace(*req.TaxGroupID))
		if err != nil {
			return nil, domain.ErrInvalidTaxGroup
		}
		group, err := s.taxGroups.GetActive(ctx, snowflake.ID(orgID), taxGroupID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, domain.ErrInvalidTaxGroup
		}
		product.TaxGroupID = taxGroupID
	}
	if req.CategoryName != nil {
		product.CategoryName = strings.TrimSpace(*req.CategoryName)
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedAt = time.Now().UTC()

	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	resp := toResponse(product)
	return &resp, nil
}

func (s *Service) Deactivate(ctx context.Context, orgID int64, rawID string) (*domain.Response, error) {
	inactive := false
	return s.Update(ctx, orgID, domain.UpdateRequest{ID: rawID, IsActive: &inactive})
}

func toResponse(product *domain.Product) domain.Response {
	return domain.Response{
		ID:           product.ID.String(),
		Name:         product.Name,
		SellingPrice: product.SellingPrice,
		TaxGroupID:   product.TaxGroupID.String(),
		CategoryName: product.CategoryName,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}
