package domain

import "errors"

var (
	ErrInvalidOrganization    = errors.New("invalid_organization")
	ErrInvalidID              = errors.New("invalid_id")
	ErrInvalidCode            = errors.New("invalid_tax_group_code")
	ErrInvalidName            = errors.New("invalid_tax_group_name")
	ErrInvalidRate            = errors.New("invalid_tax_rate")
	ErrInvalidSplitType       = errors.New("invalid_split_type")
	ErrServiceChargeInclusive = errors.New("service_charge_group_must_be_exclusive")
	ErrNotFound               = errors.New("tax_group_not_found")
	ErrCodeTaken              = errors.New("tax_group_code_taken")
)
