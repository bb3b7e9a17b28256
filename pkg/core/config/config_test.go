package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Forecast.RevenueGrowthRate != 0.10 {
		t.Errorf("RevenueGrowthRate = %v", cfg.Forecast.RevenueGrowthRate)
	}
	if cfg.Xero.InvoicePageCap != 10 || cfg.Xero.BankPageCap != 50 {
		t.Errorf("page caps = %d/%d", cfg.Xero.InvoicePageCap, cfg.Xero.BankPageCap)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growthlens.yaml")
	data := []byte("listen_addr: \":9090\"\nforecast:\n  revenue_growth_rate: 0.15\nxero:\n  bank_page_cap: 20\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Forecast.RevenueGrowthRate != 0.15 {
		t.Errorf("RevenueGrowthRate = %v", cfg.Forecast.RevenueGrowthRate)
	}
	// Untouched settings keep their defaults.
	if cfg.Forecast.SalaryGrowthRate != 0.03 {
		t.Errorf("SalaryGrowthRate = %v", cfg.Forecast.SalaryGrowthRate)
	}
	if cfg.Xero.BankPageCap != 20 {
		t.Errorf("BankPageCap = %d", cfg.Xero.BankPageCap)
	}
	if cfg.Xero.InvoicePageCap != 10 {
		t.Errorf("InvoicePageCap = %d", cfg.Xero.InvoicePageCap)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
