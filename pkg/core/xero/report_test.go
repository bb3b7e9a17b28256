package xero

import "testing"

func leafRow(label, value string) ReportRow {
	return ReportRow{
		RowType: "Row",
		Cells:   []ReportCell{{Value: label}, {Value: value}},
	}
}

func TestSumMatchingRowsWalksNestedSections(t *testing.T) {
	rows := []ReportRow{
		{
			RowType: "Section",
			Title:   "Operating Expenses",
			Rows: []ReportRow{
				leafRow("Subscriptions", "1,234.50"),
				leafRow("Software Subscriptions", "765.50"),
				leafRow("Rent", "24,000.00"),
				{
					RowType: "Section",
					Rows: []ReportRow{
						leafRow("IT Subscriptions", "100.00"),
					},
				},
			},
		},
		{RowType: "SummaryRow", Cells: []ReportCell{{Value: "Total"}, {Value: "26,100.00"}}},
	}

	total, found := sumMatchingRows(rows, []string{"Subscriptions"})
	if !found {
		t.Fatal("expected a match")
	}
	if total != 2100.00 {
		t.Fatalf("total = %.2f, want 2100.00", total)
	}
}

func TestSumMatchingRowsBidirectionalSubstring(t *testing.T) {
	rows := []ReportRow{leafRow("Software & Subscriptions", "500.00")}

	// Account name is a substring of the row label.
	if total, found := sumMatchingRows(rows, []string{"Subscriptions"}); !found || total != 500 {
		t.Errorf("label-contains-name: total=%.2f found=%v", total, found)
	}
	// Row label is a substring of the account name.
	longer := []string{"Office Software & Subscriptions Expense"}
	if total, found := sumMatchingRows(rows, longer); !found || total != 500 {
		t.Errorf("name-contains-label: total=%.2f found=%v", total, found)
	}
	if _, found := sumMatchingRows(rows, []string{"Insurance"}); found {
		t.Error("unrelated account name should not match")
	}
}

func TestSumMatchingRowsSkipsMalformedValues(t *testing.T) {
	rows := []ReportRow{
		leafRow("Subscriptions", "not-a-number"),
		leafRow("Subscriptions", "50.00"),
		{RowType: "Row", Cells: []ReportCell{{Value: "Subscriptions"}}},
	}
	total, found := sumMatchingRows(rows, []string{"subscriptions"})
	if !found || total != 50 {
		t.Fatalf("total=%.2f found=%v, want 50.00 true", total, found)
	}
}

