package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBillingConfig_Defaults(t *testing.T) {
	assert.NoError(t, validateBillingConfig(DefaultBillingConfig()))
}

func TestValidateBillingConfig_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BillingConfig)
	}{
		{"empty prefix", func(c *BillingConfig) { c.BillNumberPrefix = " " }},
		{"empty service charge code", func(c *BillingConfig) { c.ServiceChargeGroupCode = "" }},
		{"default charge above max", func(c *BillingConfig) { c.DefaultServiceCharge = 25 }},
		{"negative default charge", func(c *BillingConfig) { c.DefaultServiceCharge = -1 }},
		{"max charge above 100", func(c *BillingConfig) { c.MaxServiceCharge = 101; c.DefaultServiceCharge = 10 }},
		{"zero list limit", func(c *BillingConfig) { c.DefaultListLimit = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBillingConfig()
			tc.mutate(&cfg)
			assert.Error(t, validateBillingConfig(cfg))
		})
	}
}
