package xero

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"growthlens/pkg/core/vendors"
)

// DateRange reports the window a fiscal-year total was computed over.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Summary is the aggregate section of an analysis result.
type Summary struct {
	VendorCount       int     `json:"vendor_count"`
	TotalTransactions int     `json:"total_transactions"`
	TotalAmount       float64 `json:"total_amount"`
	PriorFYAmount     float64 `json:"prior_fy_amount"`
	CurrentFYAmount   float64 `json:"current_fy_amount"`

	SuggestedMonthlyTotal float64 `json:"suggested_monthly_total"`
	SuggestedAnnualTotal  float64 `json:"suggested_annual_total"`

	PriorFYRange   DateRange `json:"prior_fy_range"`
	CurrentFYRange DateRange `json:"current_fy_range"`

	SkippedTransactions int `json:"skipped_transactions"`

	Reconciliation Reconciliation `json:"reconciliation"`
}

// Result is the full outcome of one subscription-transaction analysis.
type Result struct {
	Vendors []VendorSummary `json:"vendors"`
	Summary Summary         `json:"summary"`
}

// Analyzer runs the subscription-transaction pipeline: fetch, classify,
// group by normalized vendor, detect cadence, suggest budgets and
// reconcile against the P&L report.
type Analyzer struct {
	normalizer *vendors.Normalizer
	logger     *slog.Logger
	now        func() time.Time
}

// NewAnalyzer creates an analyzer using the given vendor normalizer.
func NewAnalyzer(normalizer *vendors.Normalizer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{normalizer: normalizer, logger: logger, now: time.Now}
}

// Analyze executes the pipeline against one tenant. All network calls
// are sequential and awaited one at a time.
func (a *Analyzer) Analyze(ctx context.Context, client *Client, accountCodes []string) (*Result, error) {
	fw := CurrentFiscalWindow(a.now())

	accounts, err := client.FetchAccounts(ctx)
	if err != nil {
		return nil, err
	}

	codeSet := make(map[string]bool, len(accountCodes))
	accountNames := make([]string, 0, len(accountCodes))
	for _, code := range accountCodes {
		codeSet[code] = true
		if name, ok := accounts[code]; ok && name != "" {
			accountNames = append(accountNames, name)
		}
	}

	invoiceTxns, invoiceStats, err := client.FetchInvoiceTransactions(ctx, codeSet, accounts, fw)
	if err != nil {
		return nil, err
	}
	bankTxns, bankStats, err := client.FetchBankTransactions(ctx, codeSet, accounts, fw)
	if err != nil {
		return nil, err
	}

	transactions := append(invoiceTxns, bankTxns...)
	for i := range transactions {
		transactions[i].Vendor = a.normalizer.Canonical(transactions[i].Vendor, transactions[i].Description)
	}

	vendors := a.groupVendors(transactions)

	summary := Summary{
		VendorCount:         len(vendors),
		SkippedTransactions: invoiceStats.Skipped + bankStats.Skipped,
	}
	summary.PriorFYRange.From, summary.PriorFYRange.To = fw.PriorRange()
	summary.CurrentFYRange.From, summary.CurrentFYRange.To = fw.CurrentRange()

	var priorTotal, currentTotal float64
	for _, v := range vendors {
		summary.TotalTransactions += v.TotalCount
		priorTotal += v.PriorFYAmount
		currentTotal += v.CurrentFYAmount
		summary.SuggestedMonthlyTotal += v.SuggestedMonthlyBudget
	}
	summary.PriorFYAmount = round2(priorTotal)
	summary.CurrentFYAmount = round2(currentTotal)
	summary.TotalAmount = round2(priorTotal + currentTotal)
	summary.SuggestedMonthlyTotal = round2(summary.SuggestedMonthlyTotal)
	summary.SuggestedAnnualTotal = round2(summary.SuggestedMonthlyTotal * 12)

	summary.Reconciliation = client.Reconcile(ctx, accountNames, priorTotal, currentTotal, fw)

	a.logger.Info("analysis complete",
		"vendors", len(vendors),
		"transactions", summary.TotalTransactions,
		"skipped", summary.SkippedTransactions,
		"invoice_pages", invoiceStats.PagesFetched,
		"bank_pages", bankStats.PagesFetched,
	)
	return &Result{Vendors: vendors, Summary: summary}, nil
}

// groupVendors buckets transactions by normalized vendor key and
// computes per-vendor statistics. Signed amounts are summed as-is so
// credits net against debits.
func (a *Analyzer) groupVendors(transactions []Transaction) []VendorSummary {
	groups := make(map[string]*VendorSummary)
	order := make([]string, 0)

	for _, txn := range transactions {
		key := vendors.GroupKey(txn.Vendor)
		if key == "" {
			key = "unknown"
		}
		group, ok := groups[key]
		if !ok {
			group = &VendorSummary{Vendor: txn.Vendor, VendorKey: key}
			groups[key] = group
			order = append(order, key)
		}
		group.Transactions = append(group.Transactions, txn)
		group.TotalCount++
		group.TotalAmount += txn.Amount
		if txn.Period == PeriodPriorFY {
			group.PriorFYCount++
			group.PriorFYAmount += txn.Amount
		} else {
			group.CurrentFYCount++
			group.CurrentFYAmount += txn.Amount
		}
	}

	vendors := make([]VendorSummary, 0, len(order))
	for _, key := range order {
		group := groups[key]
		finalizeVendor(group)
		vendors = append(vendors, *group)
	}
	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].TotalAmount > vendors[j].TotalAmount
	})
	return vendors
}

func finalizeVendor(v *VendorSummary) {
	sort.Slice(v.Transactions, func(i, j int) bool {
		return v.Transactions[i].Date < v.Transactions[j].Date
	})
	v.FirstDate = v.Transactions[0].Date
	v.LastDate = v.Transactions[len(v.Transactions)-1].Date
	v.MonthsSpan = monthsBetween(v.FirstDate, v.LastDate)

	dates := make([]time.Time, 0, len(v.Transactions))
	for _, txn := range v.Transactions {
		if d, err := time.ParseInLocation("2006-01-02", txn.Date, time.UTC); err == nil {
			dates = append(dates, d)
		}
	}
	v.Frequency, v.Confidence = vendors.DetectFrequency(dates)

	avg := v.TotalAmount / float64(v.TotalCount)
	v.AvgAmount = round2(avg)
	v.SuggestedMonthlyBudget = round2(vendors.SuggestMonthlyBudget(v.PriorFYAmount, avg, v.Frequency, v.MonthsSpan))

	v.PriorFYAmount = round2(v.PriorFYAmount)
	v.CurrentFYAmount = round2(v.CurrentFYAmount)
	v.TotalAmount = round2(v.TotalAmount)
	for i := range v.Transactions {
		v.Transactions[i].Amount = round2(v.Transactions[i].Amount)
	}
}

// monthsBetween counts whole months from the first to the last date,
// inclusive of the starting month.
func monthsBetween(first, last string) int {
	f, err1 := time.ParseInLocation("2006-01-02", first, time.UTC)
	l, err2 := time.ParseInLocation("2006-01-02", last, time.UTC)
	if err1 != nil || err2 != nil {
		return 1
	}
	months := (l.Year()-f.Year())*12 + int(l.Month()) - int(f.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}

// round2 rounds a monetary value to two decimals.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
