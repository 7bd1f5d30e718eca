package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	domain "github.com/dinebilllabs/dinebill/internal/billing/domain"
	"github.com/dinebilllabs/dinebill/internal/config"
	obsmetrics "github.com/dinebilllabs/dinebill/internal/observability/metrics"
	productdomain "github.com/dinebilllabs/dinebill/internal/product/domain"
	"github.com/dinebilllabs/dinebill/internal/taxengine"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/dinebilllabs/dinebill/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Products   productdomain.Repository
	TaxGroups  taxgroupdomain.Repository
	BillingCfg *config.BillingConfigHolder
	Metrics    *obsmetrics.BillingMetrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	products   productdomain.Repository
	taxGroups  taxgroupdomain.Repository
	billingCfg *config.BillingConfigHolder
	metrics    *obsmetrics.BillingMetrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("billing.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		products:   p.Products,
		taxGroups:  p.TaxGroups,
		billingCfg: p.BillingCfg,
		metrics:    p.Metrics,
	}
}

// lineInput pairs an order item with the catalog state snapshotted for it.
type lineInput struct {
	productID snowflake.ID
	quantity  int64
	product   *productdomain.Product
	group     *taxgroupdomain.TaxGroup
}

func (s *Service) CreateBill(ctx context.Context, orgID int64, req domain.CreateBillRequest) (*domain.BillResponse, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	org := snowflake.ID(orgID)
	cfg := s.billingCfg.Get()

	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	// A retried request that already committed must return the original
	// bill, never create a second one.
	if req.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, org, req.IdempotencyKey)
		if err != nil {
			return nil, s.classifyPersistence(err)
		}
		if existing != nil {
			s.log.Info("idempotent replay, returning existing bill",
				zap.String("bill_number", existing.BillNumber),
				zap.String("idempotency_key", req.IdempotencyKey),
			)
			return s.loadResponse(ctx, org, existing.ID)
		}
	}

	// Validation happens in full before any write. Catalog state read here
	// is frozen into the bill; later catalog edits are intentionally ignored.
	lines := make([]lineInput, len(req.Items))
	for i, item := range req.Items {
		productID, err := snowflake.ParseString(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, item.ProductID)
		}
		product, err := s.products.GetActive(ctx, org, productID)
		if err != nil {
			return nil, s.classifyPersistence(err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, item.ProductID)
		}
		lines[i] = lineInput{productID: productID, quantity: item.Quantity, product: product}
	}

	for i := range lines {
		group, err := s.taxGroups.GetActive(ctx, org, lines[i].product.TaxGroupID)
		if err != nil {
			return nil, s.classifyPersistence(err)
		}
		if group == nil {
			return nil, fmt.Errorf("%w: product %s", domain.ErrInvalidTaxGroup, lines[i].productID)
		}
		lines[i].group = group
	}

	for _, line := range lines {
		if line.quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s quantity %d", domain.ErrInvalidQuantity, line.productID, line.quantity)
		}
	}

	var serviceGroup *taxgroupdomain.TaxGroup
	serviceRate := decimal.Zero
	if req.ApplyServiceCharge {
		serviceRate = decimal.NewFromFloat(cfg.DefaultServiceCharge)
		if req.ServiceChargeRate != nil {
			serviceRate = *req.ServiceChargeRate
		}
		if serviceRate.IsNegative() || serviceRate.GreaterThan(decimal.NewFromFloat(cfg.MaxServiceCharge)) {
			return nil, fmt.Errorf("%w: %s not in [0, %v]", domain.ErrInvalidServiceCharge, serviceRate, cfg.MaxServiceCharge)
		}

		group, err := s.taxGroups.GetActiveByCode(ctx, org, cfg.ServiceChargeGroupCode)
		if err != nil {
			return nil, s.classifyPersistence(err)
		}
		if group == nil {
			return nil, domain.ErrServiceChargeGroupMissing
		}
		serviceGroup = group
	}

	// Per-line tax computation over the frozen snapshots.
	items := make([]domain.BillItem, 0, len(lines))
	results := make([]taxengine.LineResult, 0, len(lines))
	for _, line := range lines {
		res, err := taxengine.ComputeLineTax(line.quantity, line.product.SellingPrice, groupConfig(line.group))
		if err != nil {
			return nil, s.classifyEngine(err)
		}
		results = append(results, res)

		items = append(items, domain.BillItem{
			ID:           s.genID.Generate(),
			OrgID:        org,
			ProductID:    line.productID,
			ProductName:  line.product.Name,
			CategoryName: line.product.CategoryName,
			TaxGroupName: line.group.Name,
			TaxRate:      line.group.Rate,
			IsInclusive:  line.group.IsInclusive,
			SplitType:    line.group.SplitType,
			Quantity:     line.quantity,
			UnitPrice:    line.product.SellingPrice,
			LineSubtotal: res.TaxableValue,
			CGSTAmount:   res.CGST,
			SGSTAmount:   res.SGST,
			TaxAmount:    res.TaxAmount,
			LineTotal:    res.LineTotal,
		})
	}

	summary := taxengine.Summarize(results)

	// The service charge is computed on the pre-tax item subtotal and kept
	// as a separate component, never folded into item lines.
	serviceCharge := taxengine.ServiceChargeResult{
		ChargeAmount: decimal.Zero,
		TaxAmount:    decimal.Zero,
		Total:        decimal.Zero,
	}
	if serviceGroup != nil {
		sc, err := taxengine.ComputeServiceChargeTax(summary.Subtotal, serviceRate, groupConfig(serviceGroup))
		if err != nil {
			return nil, s.classifyEngine(err)
		}
		serviceCharge = sc
	}

	total := summary.Subtotal.
		Add(serviceCharge.ChargeAmount).
		Add(summary.TotalTax).
		Add(serviceCharge.TaxAmount)

	// Defensive recompute: the sum of what is about to be persisted must
	// reproduce the header total exactly, or nothing is written.
	check := serviceCharge.Total
	for _, item := range items {
		check = check.Add(item.LineTotal)
	}
	if !check.Equal(total) {
		s.log.Error("aggregation mismatch, aborting bill",
			zap.String("expected", total.String()),
			zap.String("recomputed", check.String()),
		)
		s.recordFailure(domain.ErrTotalsMismatch)
		return nil, domain.ErrTotalsMismatch
	}

	bill := &domain.Bill{
		ID:                     s.genID.Generate(),
		OrgID:                  org,
		Subtotal:               summary.Subtotal,
		TaxAmount:              summary.TotalTax,
		CGSTAmount:             summary.TotalCGST,
		SGSTAmount:             summary.TotalSGST,
		ServiceChargeAmount:    serviceCharge.ChargeAmount,
		ServiceChargeTaxAmount: serviceCharge.TaxAmount,
		TotalAmount:            total,
		PaymentMethod:          req.PaymentMethod,
	}
	if serviceGroup != nil {
		rate := serviceRate
		name := serviceGroup.Name
		bill.ServiceChargeRate = &rate
		bill.ServiceChargeGroupName = &name
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		bill.IdempotencyKey = &key
	}

	if err := s.repo.PersistBill(ctx, cfg.BillNumberPrefix, bill, items); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Either a concurrent retry with the same idempotency key won,
			// or the number sequence collided. Only the former is resolvable.
			if req.IdempotencyKey != "" {
				existing, findErr := s.repo.FindByIdempotencyKey(ctx, org, req.IdempotencyKey)
				if findErr == nil && existing != nil {
					return s.loadResponse(ctx, org, existing.ID)
				}
			}
			s.recordFailure(domain.ErrBillNumberConflict)
			return nil, domain.ErrBillNumberConflict
		}
		s.log.Error("bill persistence failed", zap.Error(err))
		s.recordFailure(domain.ErrPersistenceFailed)
		return nil, domain.ErrPersistenceFailed
	}

	s.log.Info("bill created",
		zap.String("bill_number", bill.BillNumber),
		zap.String("total_amount", bill.TotalAmount.String()),
		zap.Int("items", len(items)),
		zap.String("payment_method", string(bill.PaymentMethod)),
	)
	if s.metrics != nil {
		s.metrics.RecordBill(string(bill.PaymentMethod), bill.TotalAmount.InexactFloat64())
	}

	resp := toResponse(bill, items)
	return &resp, nil
}

func (s *Service) GetBill(ctx context.Context, orgID int64, rawID string) (*domain.BillResponse, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(rawID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return s.loadResponse(ctx, snowflake.ID(orgID), id)
}

func (s *Service) ListBills(ctx context.Context, orgID int64, limit int) ([]domain.BillResponse, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	cfg := s.billingCfg.Get()
	if limit <= 0 {
		limit = cfg.DefaultListLimit
	}
	if limit > cfg.MaxListLimit {
		limit = cfg.MaxListLimit
	}

	bills, err := s.repo.ListBills(ctx, snowflake.ID(orgID), limit)
	if err != nil {
		return nil, s.classifyPersistence(err)
	}

	resp := make([]domain.BillResponse, 0, len(bills))
	for i := range bills {
		resp = append(resp, toResponse(&bills[i], nil))
	}
	return resp, nil
}

func (s *Service) loadResponse(ctx context.Context, orgID, id snowflake.ID) (*domain.BillResponse, error) {
	bill, items, err := s.repo.GetBill(ctx, orgID, id)
	if err != nil {
		return nil, s.classifyPersistence(err)
	}
	if bill == nil {
		return nil, domain.ErrBillNotFound
	}
	resp := toResponse(bill, items)
	return &resp, nil
}

// classifyEngine maps tax-engine errors onto billing error kinds so no
// engine-internal error type crosses the service boundary.
func (s *Service) classifyEngine(err error) error {
	switch {
	case errors.Is(err, taxengine.ErrInvalidQuantity):
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuantity, err)
	case errors.Is(err, taxengine.ErrInvalidTaxRate),
		errors.Is(err, taxengine.ErrInvalidSplitType):
		return fmt.Errorf("%w: %v", domain.ErrInvalidTaxGroup, err)
	case errors.Is(err, taxengine.ErrInvalidPrice):
		return fmt.Errorf("%w: %v", domain.ErrInvalidTaxGroup, err)
	case errors.Is(err, taxengine.ErrComputeInvariant):
		s.log.Error("tax computation invariant violated", zap.Error(err))
		s.recordFailure(domain.ErrTotalsMismatch)
		return domain.ErrTotalsMismatch
	default:
		return err
	}
}

// classifyPersistence shields callers from raw driver errors on read paths.
func (s *Service) classifyPersistence(err error) error {
	s.log.Error("storage access failed", zap.Error(err))
	s.recordFailure(domain.ErrPersistenceFailed)
	return domain.ErrPersistenceFailed
}

func (s *Service) recordFailure(kind error) {
	if s.metrics != nil {
		s.metrics.RecordFailure(kind.Error())
	}
}

func groupConfig(group *taxgroupdomain.TaxGroup) taxengine.GroupConfig {
	return taxengine.GroupConfig{
		Name:      group.Name,
		Rate:      group.Rate,
		SplitType: taxengine.SplitType(group.SplitType),
		Inclusive: group.IsInclusive,
	}
}

func toResponse(bill *domain.Bill, items []domain.BillItem) domain.BillResponse {
	resp := domain.BillResponse{
		ID:            bill.ID.String(),
		BillNumber:    bill.BillNumber,
		Subtotal:      bill.Subtotal,
		TaxAmount:     bill.TaxAmount,
		CGSTAmount:    bill.CGSTAmount,
		SGSTAmount:    bill.SGSTAmount,
		TotalAmount:   bill.TotalAmount,
		PaymentMethod: bill.PaymentMethod,
		CreatedAt:     bill.CreatedAt,
	}
	if bill.ServiceChargeRate != nil {
		rate := *bill.ServiceChargeRate
		amount := bill.ServiceChargeAmount
		tax := bill.ServiceChargeTaxAmount
		resp.ServiceChargeRate = &rate
		resp.ServiceChargeAmount = &amount
		resp.ServiceChargeTaxAmount = &tax
	}
	for i := range items {
		item := &items[i]
		resp.Items = append(resp.Items, domain.BillItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			ProductName:  item.ProductName,
			CategoryName: item.CategoryName,
			TaxGroupName: item.TaxGroupName,
			TaxRate:      item.TaxRate,
			IsInclusive:  item.IsInclusive,
			SplitType:    item.SplitType,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineSubtotal: item.LineSubtotal,
			CGSTAmount:   item.CGSTAmount,
			SGSTAmount:   item.SGSTAmount,
			TaxAmount:    item.TaxAmount,
			LineTotal:    item.LineTotal,
		})
	}
	return resp
}
