package domain

import "errors"

// Validation errors: caller input problems, surfaced with actionable detail,
// never retried internally.
var (
	ErrInvalidOrganization      = errors.New("invalid_organization")
	ErrEmptyOrder               = errors.New("empty_order")
	ErrProductNotFound          = errors.New("product_not_found")
	ErrInvalidTaxGroup          = errors.New("invalid_tax_group")
	ErrInvalidQuantity          = errors.New("invalid_quantity")
	ErrInvalidPaymentMethod     = errors.New("invalid_payment_method")
	ErrInvalidServiceCharge     = errors.New("invalid_service_charge_rate")
	ErrServiceChargeGroupMissing = errors.New("service_charge_tax_group_missing")
	ErrBillNotFound             = errors.New("bill_not_found")
	ErrInvalidID                = errors.New("invalid_id")
)

// Integrity errors: internal defects. The transaction is aborted and the
// caller sees a generic system failure.
var (
	ErrTotalsMismatch = errors.New("totals_mismatch")
)

// Persistence errors: transient. The whole CreateBill call may be retried,
// safely only with an idempotency key since this layer does not dedupe.
var (
	ErrBillNumberConflict = errors.New("bill_number_conflict")
	ErrPersistenceFailed  = errors.New("persistence_failed")
)
