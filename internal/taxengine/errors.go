package taxengine

import "errors"

var (
	ErrInvalidTaxRate   = errors.New("invalid_tax_rate")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidSplitType = errors.New("invalid_split_type")
	ErrComputeInvariant = errors.New("compute_invariant_violation")
)
