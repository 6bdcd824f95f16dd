// Package expected parses externally supplied "expected payments" lists out
// of CSV and Excel uploads: who owes what, plus whatever extra columns the
// sheet happens to carry.
package expected

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// Column headers we recognize, lowercase. A header row must contain one
// name-like and one amount-like column; everything else is passed through.
var (
	nameHeaders   = []string{"client", "name", "customer", "payer", "debtor"}
	amountHeaders = []string{"amount", "expected", "due", "owed", "value"}
)

// Parse reads an expected-payments list from an uploaded file. The format is
// picked from the filename extension: .csv via encoding/csv, .xlsx/.xls via
// excelize (first sheet).
//
// Rows before the detected header row are ignored (sheets often carry titles
// or blank lines). Rows with a blank client name or a non-positive or
// unparseable amount are skipped. All other columns are preserved in order
// as passthrough fields.
func Parse(filename string, r io.Reader) ([]domain.ExpectedPayment, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, fmt.Errorf("expected.Parse: %w", err)
	}
	return fromRows(rows)
}

func readRows(filename string, r io.Reader) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt", "":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1 // ragged rows are common in hand-edited sheets
		cr.TrimLeadingSpace = true
		return cr.ReadAll()
	case ".xlsx", ".xls", ".xlsm":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		return f.GetRows(sheet)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

func fromRows(rows [][]string) ([]domain.ExpectedPayment, error) {
	headerIdx, nameCol, amountCol := findHeader(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("expected.Parse: no header row with a client-name and an amount column found")
	}
	header := rows[headerIdx]

	payments := make([]domain.ExpectedPayment, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}

		amount, ok := parseAmount(cell(row, amountCol))
		if !ok || amount <= 0 {
			continue
		}

		var extra []domain.Field
		for col, h := range header {
			if col == nameCol || col == amountCol {
				continue
			}
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			extra = append(extra, domain.Field{Name: h, Value: strings.TrimSpace(cell(row, col))})
		}

		payments = append(payments, domain.ExpectedPayment{
			ClientName: name,
			Amount:     amount,
			Extra:      extra,
		})
	}
	return payments, nil
}

// findHeader scans for the first row that names both a client column and an
// amount column, returning the row index and both column positions.
func findHeader(rows [][]string) (idx, nameCol, amountCol int) {
	for i, row := range rows {
		nameCol, amountCol = -1, -1
		for col, h := range row {
			h = strings.ToLower(strings.TrimSpace(h))
			if h == "" {
				continue
			}
			if nameCol < 0 && containsAny(h, nameHeaders) {
				nameCol = col
				continue
			}
			if amountCol < 0 && containsAny(h, amountHeaders) {
				amountCol = col
			}
		}
		if nameCol >= 0 && amountCol >= 0 {
			return i, nameCol, amountCol
		}
	}
	return -1, -1, -1
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// parseAmount reads a currency amount out of a spreadsheet cell. Currency
// symbols, thousands separators and whitespace are stripped before parsing.
func parseAmount(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '£', '$', '€', ',', ' ', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
