package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/dinebilllabs/dinebill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("taxgroup.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, orgID int64, req domain.CreateRequest) (*domain.Response, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	now := time.Now().UTC()
	group := &domain.TaxGroup{
		ID:          s.genID.Generate(),
		OrgID:       snowflake.ID(orgID),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        strings.TrimSpace(req.Name),
		Rate:        req.Rate,
		SplitType:   req.SplitType,
		IsInclusive: req.IsInclusive,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, group); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}

	s.log.Info("tax group created",
		zap.String("id", group.ID.String()),
		zap.String("code", group.Code),
	)
	resp := toResponse(group)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, orgID int64, req domain.ListRequest) ([]domain.Response, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.List(ctx, snowflake.ID(orgID), req)
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

	group, err := s.repo.FindByID(ctx, snowflake.ID(orgID), id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		group.Name = strings.TrimSpace(*req.Name)
	}
	if req.Rate != nil {
		group.Rate = *req.Rate
	}
	if req.SplitType != nil {
		group.SplitType = *req.SplitType
	}
	if req.IsInclusive != nil {
		group.IsInclusive = *req.IsInclusive
	}
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}
	group.UpdatedAt = time.Now().UTC()

	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}

	resp := toResponse(group)
	return &resp, nil
}

func (s *Service) Deactivate(ctx context.Context, orgID int64, rawID string) (*domain.Response, error) {
	inactive := false
	return s.Update(ctx, orgID, domain.UpdateRequest{ID: rawID, IsActive: &inactive})
}

func toResponse(group *domain.TaxGroup) domain.Response {
	return domain.Response{
		ID:          group.ID.String(),
		Code:        group.Code,
		Name:        group.Name,
		Rate:        group.Rate,
		SplitType:   group.SplitType,
		IsInclusive: group.IsInclusive,
		IsActive:    group.IsActive,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}
