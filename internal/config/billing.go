package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig carries operator-tunable billing knobs. The service-charge
// ceiling is a compliance bound: requests above it are rejected, never clamped.
type BillingConfig struct {
	BillNumberPrefix        string  `mapstructure:"billNumberPrefix"`
	DefaultServiceCharge    float64 `mapstructure:"defaultServiceCharge"`
	MaxServiceCharge        float64 `mapstructure:"maxServiceCharge"`
	ServiceChargeGroupCode  string  `mapstructure:"serviceChargeGroupCode"`
	DefaultListLimit        int     `mapstructure:"defaultListLimit"`
	MaxListLimit            int     `mapstructure:"maxListLimit"`
	ReportLookbackDaysLimit int     `mapstructure:"reportLookbackDaysLimit"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		BillNumberPrefix:        "BILL",
		DefaultServiceCharge:    10,
		MaxServiceCharge:        20,
		ServiceChargeGroupCode:  "SERVICE_CHARGE_GST",
		DefaultListLimit:        100,
		MaxListLimit:            500,
		ReportLookbackDaysLimit: 366,
	}
}

// BillingConfigHolder serves the current billing config and hot-reloads it
// when the backing file changes.
type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/dinebill/config")
	v.AddConfigPath("/etc/dinebill")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DINEBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.billNumberPrefix", defaults.BillNumberPrefix)
	v.SetDefault("billing.defaultServiceCharge", defaults.DefaultServiceCharge)
	v.SetDefault("billing.maxServiceCharge", defaults.MaxServiceCharge)
	v.SetDefault("billing.serviceChargeGroupCode", defaults.ServiceChargeGroupCode)
	v.SetDefault("billing.defaultListLimit", defaults.DefaultListLimit)
	v.SetDefault("billing.maxListLimit", defaults.MaxListLimit)
	v.SetDefault("billing.reportLookbackDaysLimit", defaults.ReportLookbackDaysLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

// NewStaticBillingConfigHolder wraps a fixed config with no file watching.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateBillingConfig(cfg BillingConfig) error {
	if strings.TrimSpace(cfg.BillNumberPrefix) == "" {
		return errors.New("billing.billNumberPrefix cannot be empty")
	}
	if strings.TrimSpace(cfg.ServiceChargeGroupCode) == "" {
		return errors.New("billing.serviceChargeGroupCode cannot be empty")
	}
	if cfg.DefaultServiceCharge < 0 || cfg.DefaultServiceCharge > cfg.MaxServiceCharge {
		return errors.New("billing.defaultServiceCharge must be within [0, maxServiceCharge]")
	}
	if cfg.MaxServiceCharge < 0 || cfg.MaxServiceCharge > 100 {
		return errors.New("billing.maxServiceCharge must be within [0, 100]")
	}
	if cfg.DefaultListLimit <= 0 || cfg.DefaultListLimit > cfg.MaxListLimit {
		return errors.New("billing.defaultListLimit must be within (0, maxListLimit]")
	}
	return nil
}
