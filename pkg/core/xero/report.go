package xero

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ReportCell is one cell of a Xero report row.
type ReportCell struct {
	Value string `json:"Value"`
}

// ReportRow is a node in Xero's recursive report tree. Leaf rows carry
// the account name in the first cell and the period value in the last.
type ReportRow struct {
	RowType string       `json:"RowType"`
	Title   string       `json:"Title"`
	Cells   []ReportCell `json:"Cells"`
	Rows    []ReportRow  `json:"Rows"`
}

type reportResponse struct {
	Reports []struct {
		ReportName string      `json:"ReportName"`
		Rows       []ReportRow `json:"Rows"`
	} `json:"Reports"`
}

// FetchProfitAndLoss retrieves the standard P&L report for a date
// range and returns its row tree.
func (c *Client) FetchProfitAndLoss(ctx context.Context, from, to string) ([]ReportRow, error) {
	query := url.Values{}
	query.Set("fromDate", from)
	query.Set("toDate", to)

	var resp reportResponse
	if err := c.get(ctx, "/Reports/ProfitAndLoss", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch P&L report: %w", err)
	}
	if len(resp.Reports) == 0 {
		return nil, fmt.Errorf("P&L response contained no reports")
	}
	return resp.Reports[0].Rows, nil
}

// sumMatchingRows walks the report tree and sums the values of every
// leaf row whose account label matches one of the target names. The
// match is case-insensitive and substring-tolerant in both directions.
func sumMatchingRows(rows []ReportRow, accountNames []string) (total float64, found bool) {
	for _, row := range rows {
		if len(row.Rows) > 0 {
			sub, ok := sumMatchingRows(row.Rows, accountNames)
			total += sub
			found = found || ok
		}
		if row.RowType != "Row" || len(row.Cells) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row.Cells[0].Value))
		if label == "" || !matchesAny(label, accountNames) {
			continue
		}
		raw := strings.ReplaceAll(row.Cells[len(row.Cells)-1].Value, ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		total += value
		found = true
	}
	return total, found
}

func matchesAny(label string, accountNames []string) bool {
	for _, name := range accountNames {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if strings.Contains(label, n) || strings.Contains(n, label) {
			return true
		}
	}
	return false
}

// ReconWindow is the reconciliation outcome for one fiscal-year range.
// Actual and the variance fields stay nil when the report could not be
// fetched or no account row matched; reconciliation is advisory and
// never fails the request.
type ReconWindow struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	Analyzed        float64  `json:"analyzed"`
	Actual          *float64 `json:"actual"`
	Variance        *float64 `json:"variance"`
	VariancePercent *float64 `json:"variance_percent"`
	IsReconciled    bool     `json:"is_reconciled"`
}

// Reconciliation cross-checks the pipeline's totals against Xero's own
// P&L report for both fiscal windows.
type Reconciliation struct {
	PriorFY   ReconWindow `json:"prior_fy"`
	CurrentFY ReconWindow `json:"current_fy"`
}

// Reconcile fetches the two P&L reports and computes the variance of
// the analyzed totals against the report's account rows.
func (c *Client) Reconcile(ctx context.Context, accountNames []string, analyzedPrior, analyzedCurrent float64, fw FiscalWindow) Reconciliation {
	priorFrom, priorTo := fw.PriorRange()
	currentFrom, currentTo := fw.CurrentRange()
	return Reconciliation{
		PriorFY:   c.reconcileWindow(ctx, accountNames, analyzedPrior, priorFrom, priorTo),
		CurrentFY: c.reconcileWindow(ctx, accountNames, analyzedCurrent, currentFrom, currentTo),
	}
}

func (c *Client) reconcileWindow(ctx context.Context, accountNames []string, analyzed float64, from, to string) ReconWindow {
	window := ReconWindow{From: from, To: to, Analyzed: round2(analyzed)}

	rows, err := c.FetchProfitAndLoss(ctx, from, to)
	if err != nil {
		c.logger.Warn("P&L fetch failed, leaving window unreconciled", "from", from, "to", to, "error", err)
		return window
	}
	actual, found := sumMatchingRows(rows, accountNames)
	if !found {
		c.logger.Warn("no matching P&L account rows", "from", from, "to", to, "accounts", accountNames)
		return window
	}

	window.Actual = floatPtr(round2(actual))
	variance := analyzed - actual
	window.Variance = floatPtr(round2(variance))
	variancePercent := 0.0
	if actual != 0 {
		variancePercent = variance / actual * 100
	}
	window.VariancePercent = floatPtr(round2(variancePercent))
	window.IsReconciled = abs(variance) < c.cfg.ReconcileAbsTolerance || abs(variancePercent) < c.cfg.ReconcilePctTolerance
	return window
}

func floatPtr(v float64) *float64 { return &v }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
