package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique-constraint violation.
// Billing uses it to tell an idempotency-key replay race (ux_bills_org_idem)
// or a bill-number collision (ux_bills_org_number) apart from other
// persistence failures; the catalog relies on it for ux_tax_groups_org_code.
// Driver messages are matched directly because TranslateError is not enabled
// on every dialect.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	switch {
	// PostgreSQL (error code 23505)
	case strings.Contains(msg, "duplicate key value violates unique constraint"):
		return true
	// MySQL (error code 1062)
	case strings.Contains(msg, "Error 1062"):
		return true
	// SQLite (error code 2067)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return true
	default:
		return false
	}
}
