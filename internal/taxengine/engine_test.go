package taxengine

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func gst(rate string, inclusive bool) GroupConfig {
	return GroupConfig{
		Name:      "GST " + rate + "%",
		Rate:      dec(rate),
		SplitType: SplitCGSTSGST,
		Inclusive: inclusive,
	}
}

func TestComputeLineTax_ExclusiveSplit(t *testing.T) {
	// unit_price=100.00, qty=2, rate=5%, exclusive, CGST_SGST
	res, err := ComputeLineTax(2, dec("100.00"), gst("5", false))
	require.NoError(t, err)

	assert.True(t, res.TaxableValue.Equal(dec("200.00")), "taxable=%s", res.TaxableValue)
	assert.True(t, res.TaxAmount.Equal(dec("10.00")), "tax=%s", res.TaxAmount)
	assert.True(t, res.CGST.Equal(dec("5.00")), "cgst=%s", res.CGST)
	assert.True(t, res.SGST.Equal(dec("5.00")), "sgst=%s", res.SGST)
	assert.True(t, res.LineTotal.Equal(dec("210.00")), "total=%s", res.LineTotal)
}

func TestComputeLineTax_InclusiveSplit(t *testing.T) {
	// unit_price=210.00, qty=1, rate=5%, inclusive, CGST_SGST
	res, err := ComputeLineTax(1, dec("210.00"), gst("5", true))
	require.NoError(t, err)

	assert.True(t, res.TaxableValue.Equal(dec("200.00")), "taxable=%s", res.TaxableValue)
	assert.True(t, res.TaxAmount.Equal(dec("10.00")), "tax=%s", res.TaxAmount)
	assert.True(t, res.CGST.Equal(dec("5.00")), "cgst=%s", res.CGST)
	assert.True(t, res.SGST.Equal(dec("5.00")), "sgst=%s", res.SGST)
	assert.True(t, res.LineTotal.Equal(dec("210.00")), "total=%s", res.LineTotal)
}

func TestComputeLineTax_ZeroRate(t *testing.T) {
	for _, inclusive := range []bool{true, false} {
		res, err := ComputeLineTax(3, dec("49.99"), gst("0", inclusive))
		require.NoError(t, err)
		assert.True(t, res.TaxAmount.IsZero())
		assert.True(t, res.CGST.IsZero())
		assert.True(t, res.SGST.IsZero())
		assert.True(t, res.LineTotal.Equal(res.TaxableValue))
		assert.True(t, res.TaxableValue.Equal(dec("149.97")))
	}
}

func TestComputeLineTax_FullRateInclusive(t *testing.T) {
	// rate=100, inclusive: taxable is half the gross.
	res, err := ComputeLineTax(1, dec("300.00"), gst("100", true))
	require.NoError(t, err)
	assert.True(t, res.TaxableValue.Equal(dec("150.00")), "taxable=%s", res.TaxableValue)
	assert.True(t, res.TaxAmount.Equal(dec("150.00")))
	assert.True(t, res.LineTotal.Equal(dec("300.00")))
}

func TestComputeLineTax_OddCentRemainderGoesToSGST(t *testing.T) {
	// taxable 10.00 at 1.5% exclusive -> tax 0.15, cgst floor = 0.07, sgst = 0.08
	res, err := ComputeLineTax(1, dec("10.00"), gst("1.5", false))
	require.NoError(t, err)
	assert.True(t, res.TaxAmount.Equal(dec("0.15")), "tax=%s", res.TaxAmount)
	assert.True(t, res.CGST.Equal(dec("0.07")), "cgst=%s", res.CGST)
	assert.True(t, res.SGST.Equal(dec("0.08")), "sgst=%s", res.SGST)
	assert.True(t, res.CGST.Add(res.SGST).Equal(res.TaxAmount))
}

func TestComputeLineTax_NoSplit(t *testing.T) {
	group := GroupConfig{Name: "VAT", Rate: dec("12"), SplitType: SplitNone, Inclusive: false}
	res, err := ComputeLineTax(1, dec("50.00"), group)
	require.NoError(t, err)
	assert.True(t, res.TaxAmount.Equal(dec("6.00")))
	assert.True(t, res.CGST.IsZero())
	assert.True(t, res.SGST.IsZero())
	assert.True(t, res.LineTotal.Equal(dec("56.00")))
}

func TestComputeLineTax_InclusiveRoundTrip(t *testing.T) {
	// Recomputing the taxable value from an inclusive line total and its rate
	// reproduces the original taxable value within one cent.
	oneCent := dec("0.01")
	for _, price := range []string{"210.00", "99.99", "1.01", "123.45", "777.77"} {
		for _, rate := range []string{"5", "12", "18", "28"} {
			res, err := ComputeLineTax(1, dec(price), gst(rate, true))
			require.NoError(t, err)

			multiplier := decimal.NewFromInt(1).Add(dec(rate).Div(decimal.NewFromInt(100)))
			recomputed := res.LineTotal.Div(multiplier).Round(2)
			diff := recomputed.Sub(res.TaxableValue).Abs()
			assert.True(t, diff.LessThanOrEqual(oneCent),
				"price=%s rate=%s recomputed=%s taxable=%s", price, rate, recomputed, res.TaxableValue)
		}
	}
}

func TestComputeLineTax_InvariantsHoldAcrossRandomInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		price := decimal.NewFromInt(rng.Int63n(100000)).Div(decimal.NewFromInt(100))
		qty := rng.Int63n(20) + 1
		rate := decimal.NewFromInt(rng.Int63n(10000)).Div(decimal.NewFromInt(100))
		inclusive := rng.Intn(2) == 0

		res, err := ComputeLineTax(qty, price, GroupConfig{
			Rate:      rate,
			SplitType: SplitCGSTSGST,
			Inclusive: inclusive,
		})
		require.NoError(t, err)

		assert.True(t, res.CGST.Add(res.SGST).Equal(res.TaxAmount),
			"cgst+sgst mismatch: price=%s qty=%d rate=%s inclusive=%v", price, qty, rate, inclusive)
		assert.True(t, res.TaxableValue.Add(res.TaxAmount).Equal(res.LineTotal),
			"taxable+tax mismatch: price=%s qty=%d rate=%s inclusive=%v", price, qty, rate, inclusive)
		assert.True(t, res.CGST.LessThanOrEqual(res.SGST), "remainder must land on sgst")
		assert.False(t, res.TaxAmount.IsNegative())
	}
}

func TestComputeLineTax_Validation(t *testing.T) {
	_, err := ComputeLineTax(0, dec("10.00"), gst("5", false))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ComputeLineTax(-2, dec("10.00"), gst("5", false))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ComputeLineTax(1, dec("-0.01"), gst("5", false))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = ComputeLineTax(1, dec("10.00"), gst("-1", false))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)

	_, err = ComputeLineTax(1, dec("10.00"), gst("100.01", false))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)

	_, err = ComputeLineTax(1, dec("10.00"), GroupConfig{Rate: dec("5"), SplitType: "HALF"})
	assert.ErrorIs(t, err, ErrInvalidSplitType)
}

func TestComputeServiceChargeTax(t *testing.T) {
	// 10% service charge on 350.00 taxed at 5% exclusive:
	// charge 35.00, tax 1.75, total 36.75
	group := GroupConfig{Name: "Service Charge GST", Rate: dec("5"), SplitType: SplitCGSTSGST, Inclusive: false}
	res, err := ComputeServiceChargeTax(dec("350.00"), dec("10"), group)
	require.NoError(t, err)

	assert.True(t, res.ChargeAmount.Equal(dec("35.00")), "charge=%s", res.ChargeAmount)
	assert.True(t, res.TaxAmount.Equal(dec("1.75")), "tax=%s", res.TaxAmount)
	assert.True(t, res.CGST.Equal(dec("0.87")), "cgst=%s", res.CGST)
	assert.True(t, res.SGST.Equal(dec("0.88")), "sgst=%s", res.SGST)
	assert.True(t, res.Total.Equal(dec("36.75")), "total=%s", res.Total)
}

func TestComputeServiceChargeTax_ZeroRate(t *testing.T) {
	group := GroupConfig{Rate: dec("5"), SplitType: SplitCGSTSGST, Inclusive: false}
	res, err := ComputeServiceChargeTax(dec("350.00"), dec("0"), group)
	require.NoError(t, err)
	assert.True(t, res.ChargeAmount.IsZero())
	assert.True(t, res.TaxAmount.IsZero())
	assert.True(t, res.Total.IsZero())
}

func TestComputeServiceChargeTax_Validation(t *testing.T) {
	group := GroupConfig{Rate: dec("5"), SplitType: SplitCGSTSGST}

	_, err := ComputeServiceChargeTax(dec("-1"), dec("10"), group)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = ComputeServiceChargeTax(dec("100"), dec("-1"), group)
	assert.ErrorIs(t, err, ErrInvalidTaxRate)

	_, err = ComputeServiceChargeTax(dec("100"), dec("10"), GroupConfig{Rate: dec("101"), SplitType: SplitCGSTSGST})
	assert.ErrorIs(t, err, ErrInvalidTaxRate)
}

func TestSummarize(t *testing.T) {
	lineA, err := ComputeLineTax(2, dec("100.00"), gst("5", false))
	require.NoError(t, err)
	lineB, err := ComputeLineTax(1, dec("150.00"), gst("0", false))
	require.NoError(t, err)

	s := Summarize([]LineResult{lineA, lineB})
	assert.True(t, s.Subtotal.Equal(dec("350.00")), "subtotal=%s", s.Subtotal)
	assert.True(t, s.TotalTax.Equal(dec("10.00")))
	assert.True(t, s.TotalCGST.Equal(dec("5.00")))
	assert.True(t, s.TotalSGST.Equal(dec("5.00")))
	assert.True(t, s.TotalAmount.Equal(dec("360.00")))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Subtotal.IsZero())
	assert.True(t, s.TotalAmount.IsZero())
}
