package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// TransformModelOutput converts raw model output into a normalized
// AnalysisResult. The model is told to emit positive amounts with the
// direction in "type"; when it emits a signed amount anyway, the sign is
// folded into the magnitude here so downstream code never sees negatives.
func TransformModelOutput(rawOutput map[string]interface{}) (*domain.AnalysisResult, error) {
	period, err := getStringField(rawOutput, "statementPeriod", false)
	if err != nil {
		return nil, fmt.Errorf("TransformModelOutput: %w", err)
	}
	opening, err := getFloat64Field(rawOutput, "openingBalance", false)
	if err != nil {
		return nil, fmt.Errorf("TransformModelOutput: %w", err)
	}
	closing, err := getFloat64Field(rawOutput, "closingBalance", false)
	if err != nil {
		return nil, fmt.Errorf("TransformModelOutput: %w", err)
	}

	txAny, ok := rawOutput["transactions"]
	if !ok {
		return nil, fmt.Errorf("TransformModelOutput: missing 'transactions' key in model output")
	}
	txSlice, ok := txAny.([]interface{})
	if !ok {
		return nil, fmt.Errorf("TransformModelOutput: 'transactions' is %T, want []interface{}", txAny)
	}

	txs := make([]domain.Transaction, 0, len(txSlice))
	for i, item := range txSlice {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("TransformModelOutput: element %d is %T, want map[string]interface{}", i, item)
		}

		clientName, err := getStringField(obj, "clientName", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		typeStr, err := getStringField(obj, "type", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		date, err := getStringField(obj, "date", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		amount, err := getFloat64Field(obj, "amount", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		txType, err := normalizeTransactionType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		txs = append(txs, domain.Transaction{
			ClientName: strings.TrimSpace(clientName),
			Amount:     math.Abs(amount),
			Type:       txType,
			Date:       strings.TrimSpace(date),
		})
	}

	return &domain.AnalysisResult{
		StatementPeriod: period,
		OpeningBalance:  opening,
		ClosingBalance:  closing,
		Transactions:    txs,
	}, nil
}

func normalizeTransactionType(s string) (domain.TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "in":
		return domain.TypeCredit, nil
	case "debit", "out":
		return domain.TypeDebit, nil
	default:
		return "", fmt.Errorf("field %q has unknown value %q, want credit or debit", "type", s)
	}
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
