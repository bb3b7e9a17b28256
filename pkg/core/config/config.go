// Package config loads application settings from an optional YAML file,
// falling back to built-in defaults for every tunable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// ForecastConfig holds the thresholds and growth assumptions used by the
// forecast engine and the multi-year projection views.
type ForecastConfig struct {
	// Annual growth multipliers applied per projected year.
	RevenueGrowthRate float64 `yaml:"revenue_growth_rate"`
	SalaryGrowthRate  float64 `yaml:"salary_growth_rate"`
	CostInflationRate float64 `yaml:"cost_inflation_rate"`

	// Default growth applied to OpEx categories hydrated from context.
	DefaultOpExGrowth float64 `yaml:"default_opex_growth"`

	// Categories below this share of total prior-year OpEx are grouped.
	MaterialityThreshold float64 `yaml:"materiality_threshold"`

	// Warning rule thresholds.
	LowNetMarginPercent  float64 `yaml:"low_net_margin_percent"`
	HighNetMarginPercent float64 `yaml:"high_net_margin_percent"`
	VariancePercentLimit float64 `yaml:"variance_percent_limit"`
	ExpenseGrowthPercent float64 `yaml:"expense_growth_percent"`
}

// XeroConfig holds fetch/pagination/rate-limit settings for the Xero
// subscription-transaction pipeline.
type XeroConfig struct {
	BaseURL string `yaml:"base_url"`

	InvoicePageCap int `yaml:"invoice_page_cap"`
	BankPageCap    int `yaml:"bank_page_cap"`
	BatchSize      int `yaml:"batch_size"`

	BatchDelay        time.Duration `yaml:"batch_delay"`
	DefaultRetryAfter time.Duration `yaml:"default_retry_after"`
	MaxRetryAfter     time.Duration `yaml:"max_retry_after"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`

	// Reconciliation passes when either tolerance holds.
	ReconcileAbsTolerance float64 `yaml:"reconcile_abs_tolerance"`
	ReconcilePctTolerance float64 `yaml:"reconcile_pct_tolerance"`
}

// Config is the full application configuration.
type Config struct {
	ListenAddr      string         `yaml:"listen_addr"`
	VendorAliasFile string         `yaml:"vendor_alias_file"`
	Forecast        ForecastConfig `yaml:"forecast"`
	Xero            XeroConfig     `yaml:"xero"`
}

// Default returns the configuration with all built-in defaults applied.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		Forecast: ForecastConfig{
			RevenueGrowthRate:    0.10,
			SalaryGrowthRate:     0.03,
			CostInflationRate:    0.03,
			DefaultOpExGrowth:    0.05,
			MaterialityThreshold: 0.05,
			LowNetMarginPercent:  10,
			HighNetMarginPercent: 40,
			VariancePercentLimit: 20,
			ExpenseGrowthPercent: 50,
		},
		Xero: XeroConfig{
			BaseURL:               "https://api.xero.com",
			InvoicePageCap:        10,
			BankPageCap:           50,
			BatchSize:             50,
			BatchDelay:            time.Second,
			DefaultRetryAfter:     60 * time.Second,
			MaxRetryAfter:         120 * time.Second,
			RequestTimeout:        30 * time.Second,
			ReconcileAbsTolerance: 100,
			ReconcilePctTolerance: 1,
		},
	}
}

// Load reads YAML from path on top of the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
