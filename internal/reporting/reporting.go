// Package reporting aggregates committed bills into operator-facing reports.
// All queries read the immutable snapshots on bills and bill_items, never the
// live catalog, so reports stay stable across menu and tax edits.
package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dinebilllabs/dinebill/internal/config"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidRange = errors.New("invalid_report_range")
	ErrRangeTooWide = errors.New("report_range_too_wide")
)

type PaymentMethodSummary struct {
	PaymentMethod string          `json:"payment_method"`
	BillCount     int64           `json:"bill_count"`
	Amount        decimal.Decimal `json:"amount"`
}

type SalesSummary struct {
	From             time.Time              `json:"from"`
	To               time.Time              `json:"to"`
	BillCount        int64                  `json:"bill_count"`
	Subtotal         decimal.Decimal        `json:"subtotal"`
	TaxAmount        decimal.Decimal        `json:"tax_amount"`
	CGSTAmount       decimal.Decimal        `json:"cgst_amount"`
	SGSTAmount       decimal.Decimal        `json:"sgst_amount"`
	ServiceCharge    decimal.Decimal        `json:"service_charge_amount"`
	ServiceChargeTax decimal.Decimal        `json:"service_charge_tax_amount"`
	GrossSales       decimal.Decimal        `json:"gross_sales"`
	ByPaymentMethod  []PaymentMethodSummary `json:"by_payment_method"`
}

type TaxGroupBreakdown struct {
	TaxGroupName string          `json:"tax_group_name"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGSTAmount   decimal.Decimal `json:"cgst_amount"`
	SGSTAmount   decimal.Decimal `json:"sgst_amount"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
}

type TaxBreakdown struct {
	From             time.Time           `json:"from"`
	To               time.Time           `json:"to"`
	Groups           []TaxGroupBreakdown `json:"groups"`
	ServiceChargeTax decimal.Decimal     `json:"service_charge_tax_amount"`
	TotalTax         decimal.Decimal     `json:"total_tax_amount"`
}

type Params struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	BillingCfg *config.BillingConfigHolder
}

type Service struct {
	log        *zap.Logger
	db         *gorm.DB
	billingCfg *config.BillingConfigHolder
}

func New(p Params) *Service {
	return &Service{
		log:        p.Log.Named("reporting.service"),
		db:         p.DB,
		billingCfg: p.BillingCfg,
	}
}

func (s *Service) validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return ErrInvalidRange
	}
	limit := s.billingCfg.Get().ReportLookbackDaysLimit
	if to.Sub(from) > time.Duration(limit)*24*time.Hour {
		return ErrRangeTooWide
	}
	return nil
}

func (s *Service) SalesSummary(ctx context.Context, orgID snowflake.ID, from, to time.Time) (*SalesSummary, error) {
	if orgID == 0 {
		return nil, ErrInvalidRange
	}
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}

	summary := SalesSummary{From: from, To: to}

	row := struct {
		BillCount        int64
		Subtotal         decimal.Decimal
		TaxAmount        decimal.Decimal
		CGSTAmount       decimal.Decimal
		SGSTAmount       decimal.Decimal
		ServiceCharge    decimal.Decimal
		ServiceChargeTax decimal.Decimal
		GrossSales       decimal.Decimal
	}{}
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*)                               AS bill_count,
			COALESCE(SUM(subtotal), 0)             AS subtotal,
			COALESCE(SUM(tax_amount), 0)           AS tax_amount,
			COALESCE(SUM(cgst_amount), 0)          AS cgst_amount,
			COALESCE(SUM(sgst_amount), 0)          AS sgst_amount,
			COALESCE(SUM(service_charge_amount), 0) AS service_charge,
			COALESCE(SUM(service_charge_tax_amount), 0) AS service_charge_tax,
			COALESCE(SUM(total_amount), 0)         AS gross_sales
		FROM bills
		WHERE org_id = ? AND created_at >= ? AND created_at < ?`,
		orgID, from, to,
	).Scan(&row).Error
	if err != nil {
		s.log.Error("sales summary query failed", zap.Error(err))
		return nil, err
	}
	summary.BillCount = row.BillCount
	summary.Subtotal = row.Subtotal
	summary.TaxAmount = row.TaxAmount
	summary.CGSTAmount = row.CGSTAmount
	summary.SGSTAmount = row.SGSTAmount
	summary.ServiceCharge = row.ServiceCharge
	summary.ServiceChargeTax = row.ServiceChargeTax
	summary.GrossSales = row.GrossSales

	var byMethod []PaymentMethodSummary
	err = s.db.WithContext(ctx).Raw(`
		SELECT
			payment_method,
			COUNT(*)                       AS bill_count,
			COALESCE(SUM(total_amount), 0) AS amount
		FROM bills
		WHERE org_id = ? AND created_at >= ? AND created_at < ?
		GROUP BY payment_method
		ORDER BY payment_method`,
		orgID, from, to,
	).Scan(&byMethod).Error
	if err != nil {
		s.log.Error("payment method summary query failed", zap.Error(err))
		return nil, err
	}
	summary.ByPaymentMethod = byMethod

	return &summary, nil
}

func (s *Service) TaxBreakdown(ctx context.Context, orgID snowflake.ID, from, to time.Time) (*TaxBreakdown, error) {
	if orgID == 0 {
		return nil, ErrInvalidRange
	}
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}

	breakdown := TaxBreakdown{From: from, To: to}

	// Grouped by snapshot name and rate: a renamed or re-rated group shows
	// up as separate rows, which is the honest reading of historical data.
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			bi.tax_group_name,
			bi.tax_rate,
			COALESCE(SUM(bi.line_subtotal), 0) AS taxable_value,
			COALESCE(SUM(bi.cgst_amount), 0)   AS cgst_amount,
			COALESCE(SUM(bi.sgst_amount), 0)   AS sgst_amount,
			COALESCE(SUM(bi.tax_amount), 0)    AS tax_amount
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE bi.org_id = ? AND b.created_at >= ? AND b.created_at < ?
		GROUP BY bi.tax_group_name, bi.tax_rate
		ORDER BY bi.tax_group_name, bi.tax_rate`,
		orgID, from, to,
	).Scan(&breakdown.Groups).Error
	if err != nil {
		s.log.Error("tax breakdown query failed", zap.Error(err))
		return nil, err
	}

	row := struct {
		ServiceChargeTax decimal.Decimal
	}{}
	err = s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(service_charge_tax_amount), 0) AS service_charge_tax
		FROM bills
		WHERE org_id = ? AND created_at >= ? AND created_at < ?`,
		orgID, from, to,
	).Scan(&row).Error
	if err != nil {
		s.log.Error("service charge tax query failed", zap.Error(err))
		return nil, err
	}
	breakdown.ServiceChargeTax = row.ServiceChargeTax

	total := breakdown.ServiceChargeTax
	for _, g := range breakdown.Groups {
		total = total.Add(g.TaxAmount)
	}
	breakdown.TotalTax = total

	return &breakdown, nil
}

var Module = fx.Module("reporting.service",
	fx.Provide(New),
)
