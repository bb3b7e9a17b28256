package xero

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// maxPageRetries bounds how many 429 retries a pagination loop absorbs
// in total before the error is surfaced.
const maxPageRetries = 5

// FetchBankTransactions ingests SPEND bank transactions in a single
// paginated pass. Unlike the invoice path, the list response already
// carries line items, so no hydration phase is needed. A rate-limited
// page is retried in place after the capped Retry-After wait.
func (c *Client) FetchBankTransactions(ctx context.Context, accountCodes map[string]bool, accounts map[string]string, fw FiscalWindow) ([]Transaction, FetchStats, error) {
	var stats FetchStats
	from, _ := fw.PriorRange()
	where := fmt.Sprintf(`Type=="SPEND" AND Date>=DateTime(%s)`, dateTimeArgs(from))

	transactions := make([]Transaction, 0, 128)
	retries := 0
	for page := 1; page <= c.cfg.BankPageCap; page++ {
		query := url.Values{}
		query.Set("where", where)
		query.Set("page", strconv.Itoa(page))

		var resp bankTransactionsResponse
		if err := c.get(ctx, "/BankTransactions", query, &resp); err != nil {
			var rl *rateLimitError
			if errors.As(err, &rl) && retries < maxPageRetries {
				retries++
				c.logger.Warn("rate limited fetching bank transactions", "page", page, "wait", rl.retryAfter)
				c.sleep(rl.retryAfter)
				page-- // retry the same page
				continue
			}
			return nil, stats, fmt.Errorf("failed to list bank transactions (page %d): %w", page, err)
		}
		stats.PagesFetched++
		if len(resp.BankTransactions) == 0 {
			break
		}
		for _, bt := range resp.BankTransactions {
			txns, skipped := c.bankTransactionLines(bt, accountCodes, accounts, fw)
			transactions = append(transactions, txns...)
			stats.Matched += len(txns)
			stats.Skipped += skipped
		}
	}
	c.logger.Info("fetched bank transactions", "matched", stats.Matched, "skipped", stats.Skipped, "pages", stats.PagesFetched)
	return transactions, stats, nil
}

func (c *Client) bankTransactionLines(bt apiBankTransaction, accountCodes map[string]bool, accounts map[string]string, fw FiscalWindow) ([]Transaction, int) {
	date := normalizeDate(bt.DateString, bt.Date)
	period, ok := fw.Classify(date)
	if !ok {
		skipped := 0
		for _, line := range bt.LineItems {
			if accountCodes[line.AccountCode] {
				skipped++
			}
		}
		if skipped > 0 {
			c.logger.Debug("bank transaction outside fiscal window", "transaction", bt.BankTransactionID, "date", date, "lines", skipped)
		}
		return nil, skipped
	}

	txns := make([]Transaction, 0, 1)
	for i, line := range bt.LineItems {
		if !accountCodes[line.AccountCode] {
			continue
		}
		txns = append(txns, Transaction{
			ID:          fmt.Sprintf("%s-%d", bt.BankTransactionID, i),
			Date:        date,
			Vendor:      bt.Contact.Name,
			Description: line.Description,
			Amount:      line.LineAmount,
			AccountCode: line.AccountCode,
			AccountName: accounts[line.AccountCode],
			Source:      SourceBank,
			Reference:   bt.Reference,
			Period:      period,
			IsCredit:    line.LineAmount < 0,
		})
	}
	return txns, 0
}
