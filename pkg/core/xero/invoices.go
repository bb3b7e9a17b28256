package xero

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FetchStats carries the explicit skip/match counters from one
// ingestion pass.
type FetchStats struct {
	PagesFetched int `json:"pages_fetched"`
	Matched      int `json:"matched"`
	Skipped      int `json:"skipped"`
}

// FetchInvoiceTransactions ingests AP invoice line items in two phases:
// first the filtered list endpoint is paginated collecting invoice IDs
// only, then full records are hydrated in fixed-size ID batches so line
// items become available. Enumeration completes before any hydration
// begins, so pagination state is never affected by the slower batch
// calls.
func (c *Client) FetchInvoiceTransactions(ctx context.Context, accountCodes map[string]bool, accounts map[string]string, fw FiscalWindow) ([]Transaction, FetchStats, error) {
	var stats FetchStats

	ids, pages, err := c.enumerateInvoiceIDs(ctx, fw)
	if err != nil {
		return nil, stats, err
	}
	stats.PagesFetched = pages
	c.logger.Info("enumerated AP invoices", "ids", len(ids), "pages", pages)

	transactions := make([]Transaction, 0, len(ids))
	for start := 0; start < len(ids); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := c.hydrateInvoiceBatch(ctx, ids[start:end])
		if err != nil {
			// A batch that failed its single retry is dropped, not fatal.
			c.logger.Warn("invoice batch dropped", "offset", start, "error", err)
			continue
		}
		for _, inv := range batch {
			txns, skipped := c.invoiceTransactions(inv, accountCodes, accounts, fw)
			transactions = append(transactions, txns...)
			stats.Matched += len(txns)
			stats.Skipped += skipped
		}
		if end < len(ids) {
			c.sleep(c.cfg.BatchDelay)
		}
	}
	return transactions, stats, nil
}

// enumerateInvoiceIDs pages the filtered invoice list until an empty
// page or the page safety cap.
func (c *Client) enumerateInvoiceIDs(ctx context.Context, fw FiscalWindow) ([]string, int, error) {
	from, _ := fw.PriorRange()
	where := fmt.Sprintf(`Type=="ACCPAY" AND Date>=DateTime(%s)`, dateTimeArgs(from))

	ids := make([]string, 0, 128)
	pages := 0
	retries := 0
	for page := 1; page <= c.cfg.InvoicePageCap; page++ {
		query := url.Values{}
		query.Set("where", where)
		query.Set("page", strconv.Itoa(page))
		query.Set("summaryOnly", "True")

		var resp invoicesResponse
		if err := c.get(ctx, "/Invoices", query, &resp); err != nil {
			var rl *rateLimitError
			if errors.As(err, &rl) && retries < maxPageRetries {
				retries++
				c.logger.Warn("rate limited enumerating invoices", "page", page, "wait", rl.retryAfter)
				c.sleep(rl.retryAfter)
				page-- // retry the same page
				continue
			}
			return nil, pages, fmt.Errorf("failed to list invoices (page %d): %w", page, err)
		}
		pages++
		if len(resp.Invoices) == 0 {
			break
		}
		for _, inv := range resp.Invoices {
			ids = append(ids, inv.InvoiceID)
		}
	}
	return ids, pages, nil
}

// hydrateInvoiceBatch fetches full invoice records for up to BatchSize
// IDs. A 429 response is retried exactly once after the capped
// Retry-After wait.
func (c *Client) hydrateInvoiceBatch(ctx context.Context, ids []string) ([]apiInvoice, error) {
	query := url.Values{}
	query.Set("IDs", strings.Join(ids, ","))

	var resp invoicesResponse
	err := c.get(ctx, "/Invoices", query, &resp)
	if err != nil {
		var rl *rateLimitError
		if !errors.As(err, &rl) {
			return nil, err
		}
		c.logger.Warn("rate limited hydrating invoice batch", "wait", rl.retryAfter)
		c.sleep(rl.retryAfter)
		if err := c.get(ctx, "/Invoices", query, &resp); err != nil {
			return nil, fmt.Errorf("invoice batch retry failed: %w", err)
		}
	}
	return resp.Invoices, nil
}

// invoiceTransactions filters one invoice's line items to the requested
// account codes and fiscal window. Out-of-window dates are dropped and
// counted, never surfaced as errors.
func (c *Client) invoiceTransactions(inv apiInvoice, accountCodes map[string]bool, accounts map[string]string, fw FiscalWindow) ([]Transaction, int) {
	date := normalizeDate(inv.DateString, inv.Date)
	period, ok := fw.Classify(date)
	if !ok {
		skipped := 0
		for _, line := range inv.LineItems {
			if accountCodes[line.AccountCode] {
				skipped++
			}
		}
		if skipped > 0 {
			c.logger.Debug("invoice outside fiscal window", "invoice", inv.InvoiceID, "date", date, "lines", skipped)
		}
		return nil, skipped
	}

	txns := make([]Transaction, 0, 1)
	for i, line := range inv.LineItems {
		if !accountCodes[line.AccountCode] {
			continue
		}
		txns = append(txns, Transaction{
			ID:          fmt.Sprintf("%s-%d", inv.InvoiceID, i),
			Date:        date,
			Vendor:      inv.Contact.Name,
			Description: line.Description,
			Amount:      line.LineAmount,
			AccountCode: line.AccountCode,
			AccountName: accounts[line.AccountCode],
			Source:      SourceInvoice,
			Reference:   inv.Reference,
			Period:      period,
			IsCredit:    line.LineAmount < 0,
		})
	}
	return txns, 0
}

// dateTimeArgs formats "YYYY-MM-DD" as the comma-separated arguments of
// a Xero where-clause DateTime literal.
func dateTimeArgs(date string) string {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) != 3 {
		return date
	}
	y, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	d, _ := strconv.Atoi(parts[2])
	return fmt.Sprintf("%d,%d,%d", y, m, d)
}
