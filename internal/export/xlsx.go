package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// Report bundles everything that goes into one exported workbook.
// Statuses may be nil when no reconciliation has run.
type Report struct {
	Result       domain.AnalysisResult
	Summaries    []domain.ClientSummary
	Trends       []domain.ClientMonthlyTrend
	Verification domain.BalanceVerification
	Statuses     []domain.PaymentStatus
}

// ReportXLSX writes the full analysis as one Excel workbook: a statement
// sheet with the header and verification verdict, then one sheet per record
// family. Amounts are written as numbers so spreadsheet formulas work on the
// output.
func ReportXLSX(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeStatementSheet(f, report); err != nil {
		return err
	}
	if err := writeSummariesSheet(f, report.Summaries); err != nil {
		return err
	}
	if err := writeTrendsSheet(f, report.Trends); err != nil {
		return err
	}
	if report.Statuses != nil {
		if err := writeStatusesSheet(f, report.Statuses); err != nil {
			return err
		}
	}

	// NewFile seeds a default "Sheet1"; the statement sheet replaces it.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("ReportXLSX: delete default sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("ReportXLSX: writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	cellRef, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return fmt.Errorf("cell ref for row %d: %w", rowIdx, err)
	}
	if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
		return fmt.Errorf("setting row %d on %s: %w", rowIdx, sheet, err)
	}
	return nil
}

func writeStatementSheet(f *excelize.File, report Report) error {
	const sheet = "Statement"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("ReportXLSX: new sheet %s: %w", sheet, err)
	}

	verdict := "MISMATCH"
	if report.Verification.IsMatch {
		verdict = "OK"
	}

	rows := [][]interface{}{
		{"Statement Period", report.Result.StatementPeriod},
		{"Opening Balance", report.Result.OpeningBalance},
		{"Closing Balance", report.Result.ClosingBalance},
		{"Calculated Closing", report.Verification.CalculatedClosing},
		{"Difference", report.Verification.Difference},
		{"Balance Check", verdict},
		{"Transactions", len(report.Result.Transactions)},
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+1, row); err != nil {
			return fmt.Errorf("ReportXLSX: %w", err)
		}
	}
	return nil
}

func writeSummariesSheet(f *excelize.File, summaries []domain.ClientSummary) error {
	const sheet = "Client Summaries"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("ReportXLSX: new sheet %s: %w", sheet, err)
	}

	if err := setRow(f, sheet, 1, []interface{}{"Client", "Total Credit", "Credit Count", "Total Debit", "Debit Count", "Net Total"}); err != nil {
		return fmt.Errorf("ReportXLSX: %w", err)
	}
	for i, s := range summaries {
		row := []interface{}{s.ClientName, s.TotalCredit, s.CreditCount, s.TotalDebit, s.DebitCount, s.NetTotal}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return fmt.Errorf("ReportXLSX: %w", err)
		}
	}
	return nil
}

func writeTrendsSheet(f *excelize.File, trends []domain.ClientMonthlyTrend) error {
	const sheet = "Monthly Trends"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("ReportXLSX: new sheet %s: %w", sheet, err)
	}

	if err := setRow(f, sheet, 1, []interface{}{"Client", "Month", "Total Credit", "Total Debit", "Net Change"}); err != nil {
		return fmt.Errorf("ReportXLSX: %w", err)
	}
	for i, t := range trends {
		row := []interface{}{t.ClientName, t.Month, t.TotalCredit, t.TotalDebit, t.NetChange}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return fmt.Errorf("ReportXLSX: %w", err)
		}
	}
	return nil
}

func writeStatusesSheet(f *excelize.File, statuses []domain.PaymentStatus) error {
	const sheet = "Reconciliation"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("ReportXLSX: new sheet %s: %w", sheet, err)
	}

	header := []interface{}{"Client", "Expected Amount", "Paid Amount", "Difference", "Status"}
	if len(statuses) > 0 {
		for _, fl := range statuses[0].Extra {
			header = append(header, fl.Name)
		}
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return fmt.Errorf("ReportXLSX: %w", err)
	}

	for i, st := range statuses {
		row := []interface{}{st.ClientName, st.ExpectedAmount, st.PaidAmount, st.Difference, string(st.Status)}
		for _, fl := range st.Extra {
			row = append(row, fl.Value)
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return fmt.Errorf("ReportXLSX: %w", err)
		}
	}
	return nil
}
