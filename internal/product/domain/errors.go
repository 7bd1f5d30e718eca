package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_product_name")
	ErrInvalidPrice        = errors.New("invalid_product_price")
	ErrInvalidTaxGroup     = errors.New("invalid_product_tax_group")
	ErrNotFound            = errors.New("product_not_found")
)
