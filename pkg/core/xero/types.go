// Package xero implements the subscription-transaction reconciliation
// pipeline against the Xero accounting API: paginated ingestion of AP
// invoices and bank spend transactions, fiscal-period classification,
// vendor aggregation and best-effort reconciliation against Xero's own
// Profit & Loss report.
package xero

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"growthlens/pkg/core/vendors"
)

// Period assigns a transaction to an Australian fiscal year window.
type Period string

const (
	PeriodPriorFY   Period = "prior_fy"
	PeriodCurrentFY Period = "current_fy"
)

// Transaction sources.
const (
	SourceInvoice = "invoice"
	SourceBank    = "bank"
)

// Transaction is one matched subscription line item. Amount keeps the
// original signed value; credits are negative and net against debits.
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // "YYYY-MM-DD"
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Source      string  `json:"source"`
	Reference   string  `json:"reference,omitempty"`
	Period      Period  `json:"period"`
	IsCredit    bool    `json:"is_credit"`
}

// VendorSummary aggregates all of one vendor's transactions across both
// fiscal-year windows.
type VendorSummary struct {
	Vendor    string `json:"vendor"`
	VendorKey string `json:"vendor_key"`

	PriorFYAmount   float64 `json:"prior_fy_amount"`
	PriorFYCount    int     `json:"prior_fy_count"`
	CurrentFYAmount float64 `json:"current_fy_amount"`
	CurrentFYCount  int     `json:"current_fy_count"`

	TotalAmount float64 `json:"total_amount"`
	TotalCount  int     `json:"total_count"`
	AvgAmount   float64 `json:"avg_amount"`

	Frequency  vendors.Frequency  `json:"frequency"`
	Confidence vendors.Confidence `json:"confidence"`

	FirstDate  string `json:"first_date"`
	LastDate   string `json:"last_date"`
	MonthsSpan int    `json:"months_span"`

	SuggestedMonthlyBudget float64 `json:"suggested_monthly_budget"`

	Transactions []Transaction `json:"transactions"`
}

// ---------------------------------------------------------------------
// Xero API response shapes (only the fields this pipeline reads)
// ---------------------------------------------------------------------

type apiContact struct {
	Name string `json:"Name"`
}

type apiLineItem struct {
	Description string  `json:"Description"`
	LineAmount  float64 `json:"LineAmount"`
	AccountCode string  `json:"AccountCode"`
}

type apiInvoice struct {
	InvoiceID  string        `json:"InvoiceID"`
	Type       string        `json:"Type"`
	Date       string        `json:"Date"`
	DateString string        `json:"DateString"`
	Contact    apiContact    `json:"Contact"`
	Reference  string        `json:"Reference"`
	LineItems  []apiLineItem `json:"LineItems"`
}

type invoicesResponse struct {
	Invoices []apiInvoice `json:"Invoices"`
}

type apiBankTransaction struct {
	BankTransactionID string        `json:"BankTransactionID"`
	Type              string        `json:"Type"`
	Date              string        `json:"Date"`
	DateString        string        `json:"DateString"`
	Contact           apiContact    `json:"Contact"`
	Reference         string        `json:"Reference"`
	LineItems         []apiLineItem `json:"LineItems"`
}

type bankTransactionsResponse struct {
	BankTransactions []apiBankTransaction `json:"BankTransactions"`
}

type apiAccount struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

type accountsResponse struct {
	Accounts []apiAccount `json:"Accounts"`
}

var msDateRe = regexp.MustCompile(`/Date\((\d+)`)

// normalizeDate reduces a Xero date to "YYYY-MM-DD". Xero returns
// either an ISO DateString ("2025-01-01T00:00:00") or a legacy
// "/Date(1735689600000+0000)/" value depending on the field.
func normalizeDate(dateString, date string) string {
	if len(dateString) >= 10 {
		return dateString[:10]
	}
	if m := msDateRe.FindStringSubmatch(date); m != nil {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil {
			return time.UnixMilli(ms).UTC().Format("2006-01-02")
		}
	}
	if len(date) >= 10 && strings.Count(date[:10], "-") == 2 {
		return date[:10]
	}
	return ""
}
