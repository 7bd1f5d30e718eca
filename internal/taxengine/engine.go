// Package taxengine is the only place tax math happens. All functions are
// pure and safe for unrestricted concurrent use. Monetary values are exact
// decimals; rounding to the minor currency unit happens exactly once, on the
// final output fields, never on intermediate ratios.
package taxengine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType controls how a tax amount is itemized.
type SplitType string

const (
	SplitCGSTSGST SplitType = "CGST_SGST"
	SplitNone     SplitType = "NONE"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// GroupConfig is the tax-group snapshot a computation runs against.
type GroupConfig struct {
	Name      string
	Rate      decimal.Decimal // percent, 0-100
	SplitType SplitType
	Inclusive bool
}

// LineResult is the tax breakdown for one monetary line.
// Invariants on every returned value:
//
//	CGST + SGST == TaxAmount   (when SplitType is CGST_SGST; both zero otherwise)
//	TaxableValue + TaxAmount == LineTotal
type LineResult struct {
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	TaxAmount    decimal.Decimal
	LineTotal    decimal.Decimal
}

// ServiceChargeResult is the breakdown for an order-level service charge.
// ChargeAmount is the taxable base of the charge itself.
type ServiceChargeResult struct {
	ChargeAmount decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	TaxAmount    decimal.Decimal
	Total        decimal.Decimal
}

// Summary aggregates line results for a whole bill.
type Summary struct {
	Subtotal    decimal.Decimal
	TotalTax    decimal.Decimal
	TotalCGST   decimal.Decimal
	TotalSGST   decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeLineTax computes the tax breakdown for quantity units at unitPrice
// under the given tax group.
func ComputeLineTax(quantity int64, unitPrice decimal.Decimal, group GroupConfig) (LineResult, error) {
	if err := validateGroup(group); err != nil {
		return LineResult{}, err
	}
	if quantity <= 0 {
		return LineResult{}, fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidQuantity)
	}
	if unitPrice.IsNegative() {
		return LineResult{}, fmt.Errorf("%w: unit price cannot be negative", ErrInvalidPrice)
	}

	gross := unitPrice.Mul(decimal.NewFromInt(quantity))
	return computeOnGross(gross, group)
}

// ComputeServiceChargeTax applies chargeRate percent to the aggregate item
// subtotal and taxes the resulting charge under the dedicated service-charge
// group. The group is expected to be exclusive; the charge is computed on the
// pre-tax base either way.
func ComputeServiceChargeTax(base decimal.Decimal, chargeRate decimal.Decimal, group GroupConfig) (ServiceChargeResult, error) {
	if err := validateGroup(group); err != nil {
		return ServiceChargeResult{}, err
	}
	if base.IsNegative() {
		return ServiceChargeResult{}, fmt.Errorf("%w: service charge base cannot be negative", ErrInvalidPrice)
	}
	if chargeRate.IsNegative() || chargeRate.GreaterThan(hundred) {
		return ServiceChargeResult{}, fmt.Errorf("%w: service charge rate must be within [0, 100]", ErrInvalidTaxRate)
	}

	charge := roundCurrency(base.Mul(chargeRate).Div(hundred))
	line, err := computeOnGross(charge, group)
	if err != nil {
		return ServiceChargeResult{}, err
	}

	return ServiceChargeResult{
		ChargeAmount: line.TaxableValue,
		CGST:         line.CGST,
		SGST:         line.SGST,
		TaxAmount:    line.TaxAmount,
		Total:        line.LineTotal,
	}, nil
}

// Summarize aggregates already-rounded line results. Sums of exact cents are
// exact, so no further rounding is applied.
func Summarize(lines []LineResult) Summary {
	s := Summary{
		Subtotal:    decimal.Zero,
		TotalTax:    decimal.Zero,
		TotalCGST:   decimal.Zero,
		TotalSGST:   decimal.Zero,
		TotalAmount: decimal.Zero,
	}
	for _, line := range lines {
		s.Subtotal = s.Subtotal.Add(line.TaxableValue)
		s.TotalTax = s.TotalTax.Add(line.TaxAmount)
		s.TotalCGST = s.TotalCGST.Add(line.CGST)
		s.TotalSGST = s.TotalSGST.Add(line.SGST)
		s.TotalAmount = s.TotalAmount.Add(line.LineTotal)
	}
	return s
}

func computeOnGross(gross decimal.Decimal, group GroupConfig) (LineResult, error) {
	grossRounded := roundCurrency(gross)

	var taxable, tax decimal.Decimal
	if group.Inclusive {
		if group.Rate.IsZero() {
			taxable = grossRounded
			tax = decimal.Zero
		} else {
			multiplier := decimal.NewFromInt(1).Add(group.Rate.Div(hundred))
			taxable = roundCurrency(gross.Div(multiplier))
			tax = grossRounded.Sub(taxable)
		}
	} else {
		taxable = grossRounded
		if group.Rate.IsZero() {
			tax = decimal.Zero
		} else {
			tax = roundCurrency(taxable.Mul(group.Rate).Div(hundred))
		}
	}

	lineTotal := taxable.Add(tax)
	cgst, sgst := splitTax(tax, group.SplitType)

	if !cgst.Add(sgst).Equal(tax) && group.SplitType == SplitCGSTSGST {
		return LineResult{}, fmt.Errorf("%w: cgst %s + sgst %s != tax %s", ErrComputeInvariant, cgst, sgst, tax)
	}
	if !taxable.Add(tax).Equal(lineTotal) {
		return LineResult{}, fmt.Errorf("%w: taxable %s + tax %s != total %s", ErrComputeInvariant, taxable, tax, lineTotal)
	}

	return LineResult{
		TaxableValue: taxable,
		CGST:         cgst,
		SGST:         sgst,
		TaxAmount:    tax,
		LineTotal:    lineTotal,
	}, nil
}

// splitTax divides a tax amount between CGST and SGST. The cent remainder of
// an odd split always lands on SGST so the two halves sum exactly.
func splitTax(tax decimal.Decimal, split SplitType) (cgst, sgst decimal.Decimal) {
	if split != SplitCGSTSGST {
		return decimal.Zero, decimal.Zero
	}
	cgst = tax.Mul(hundred).Div(two).Floor().Div(hundred)
	sgst = tax.Sub(cgst)
	return cgst, sgst
}

func validateGroup(group GroupConfig) error {
	if group.Rate.IsNegative() || group.Rate.GreaterThan(hundred) {
		return fmt.Errorf("%w: rate %s must be within [0, 100]", ErrInvalidTaxRate, group.Rate)
	}
	switch group.SplitType {
	case SplitCGSTSGST, SplitNone:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSplitType, group.SplitType)
	}
}

// roundCurrency rounds to the minor currency unit, half away from zero.
func roundCurrency(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
