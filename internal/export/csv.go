// Package export renders analysis records as delimited text and Excel
// workbooks for download. It defines presentation only; all record shapes
// come from the domain package.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// SummariesCSV writes client summaries as CSV.
func SummariesCSV(w io.Writer, summaries []domain.ClientSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Client", "Total Credit", "Credit Count", "Total Debit", "Debit Count", "Net Total"}); err != nil {
		return fmt.Errorf("SummariesCSV: writing header: %w", err)
	}
	for _, s := range summaries {
		record := []string{
			s.ClientName,
			money(s.TotalCredit),
			strconv.Itoa(s.CreditCount),
			money(s.TotalDebit),
			strconv.Itoa(s.DebitCount),
			money(s.NetTotal),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("SummariesCSV: writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// TrendsCSV writes monthly trend rows as CSV.
func TrendsCSV(w io.Writer, trends []domain.ClientMonthlyTrend) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Client", "Month", "Total Credit", "Total Debit", "Net Change"}); err != nil {
		return fmt.Errorf("TrendsCSV: writing header: %w", err)
	}
	for _, t := range trends {
		record := []string{
			t.ClientName,
			t.Month,
			money(t.TotalCredit),
			money(t.TotalDebit),
			money(t.NetChange),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("TrendsCSV: writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// StatusesCSV writes reconciliation rows as CSV. Passthrough columns are
// appended after the fixed columns; the header uses the columns of the first
// row, which all rows of one reconciliation share.
func StatusesCSV(w io.Writer, statuses []domain.PaymentStatus) error {
	cw := csv.NewWriter(w)

	header := []string{"Client", "Expected Amount", "Paid Amount", "Difference", "Status"}
	if len(statuses) > 0 {
		for _, f := range statuses[0].Extra {
			header = append(header, f.Name)
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("StatusesCSV: writing header: %w", err)
	}

	for _, st := range statuses {
		record := []string{
			st.ClientName,
			money(st.ExpectedAmount),
			money(st.PaidAmount),
			money(st.Difference),
			string(st.Status),
		}
		for _, f := range st.Extra {
			record = append(record, f.Value)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("StatusesCSV: writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
