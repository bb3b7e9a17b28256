package forecast

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"growthlens/pkg/core/config"
)

func postPreview(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(config.Default().Forecast, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/forecast/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePreview(rec, req)
	return rec
}

func TestHandlePreviewCalculations(t *testing.T) {
	rec := postPreview(t, `{
		"state": {
			"revenue_target": 100000,
			"profit_target": 20000,
			"fiscal_year": 2025,
			"existing_team": [
				{"id":"tm-1","name":"Dev","annual_salary":40000,"classification":"cogs"}
			],
			"opex_categories": [
				{"id":"rent","name":"Rent","prior_year_amount":10000,"forecast_amount":10000}
			]
		}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	c := resp.Calculations
	if c.GrossProfit != 60000 {
		t.Errorf("GrossProfit = %.2f, want 60000", c.GrossProfit)
	}
	if c.NetProfit != 50000 {
		t.Errorf("NetProfit = %.2f, want 50000", c.NetProfit)
	}
	if math.Abs(c.NetMargin-50) > 1e-9 {
		t.Errorf("NetMargin = %.2f, want 50", c.NetMargin)
	}
	if resp.YearView != nil {
		t.Error("no year selector: YearView should be absent")
	}
}

func TestHandlePreviewYearView(t *testing.T) {
	rec := postPreview(t, `{
		"state": {"revenue_target": 100000, "fiscal_year": 2025},
		"year": 3
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.YearView == nil {
		t.Fatal("expected a year view")
	}
	// 100000 * 1.10^2, compounded not linear.
	if math.Abs(resp.YearView.RevenueTarget-121000) > 0.01 {
		t.Errorf("year 3 revenue = %.2f, want 121000", resp.YearView.RevenueTarget)
	}
}

func TestHandlePreviewMonthlyView(t *testing.T) {
	rec := postPreview(t, `{
		"state": {"revenue_target": 120000, "fiscal_year": 2025},
		"year": 1,
		"monthly": true
	}`)
	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.YearView == nil {
		t.Fatal("expected a monthly view")
	}
	if !resp.YearView.Monthly {
		t.Error("view should be flagged monthly")
	}
	if math.Abs(resp.YearView.RevenueTarget-10000) > 0.01 {
		t.Errorf("monthly revenue = %.2f, want 10000", resp.YearView.RevenueTarget)
	}
}

func TestHandlePreviewAppliesContext(t *testing.T) {
	rec := postPreview(t, `{
		"state": {"fiscal_year": 2025},
		"context": {
			"revenue_target": 250000,
			"prior_year_opex": {"Rent": 24000}
		}
	}`)
	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// Context hydration applied before derivation: OpEx forecast grows
	// the prior-year baseline by the default rate.
	if math.Abs(resp.Calculations.OpExForecastTotal-25200) > 0.01 {
		t.Errorf("OpExForecastTotal = %.2f, want 25200", resp.Calculations.OpExForecastTotal)
	}
}

func TestHandlePreviewSelectedYears(t *testing.T) {
	rec := postPreview(t, `{
		"state": {"revenue_target": 100000, "years_selected": [1, 3]}
	}`)
	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.YearViews) != 2 {
		t.Fatalf("YearViews len = %d, want 2", len(resp.YearViews))
	}
	if resp.YearViews[0].Year != 1 || resp.YearViews[1].Year != 3 {
		t.Errorf("years = %d, %d", resp.YearViews[0].Year, resp.YearViews[1].Year)
	}
}

func TestHandlePreviewRejectsBadInput(t *testing.T) {
	if rec := postPreview(t, `{not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d", rec.Code)
	}

	h := NewHandler(config.Default().Forecast, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/forecast/preview", nil)
	rec := httptest.NewRecorder()
	h.HandlePreview(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: status = %d", rec.Code)
	}
}
