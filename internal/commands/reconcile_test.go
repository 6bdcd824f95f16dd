package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/pipeline"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func savedAnalysis(t *testing.T) string {
	t.Helper()
	outcome := pipeline.Outcome{
		Result: domain.AnalysisResult{StatementPeriod: "January 2025"},
		Summaries: []domain.ClientSummary{
			{ClientName: "Acme Corp", TotalCredit: 500, CreditCount: 1, NetTotal: 500},
		},
		Verification: domain.BalanceVerification{IsMatch: true},
	}
	data, err := json.Marshal(outcome)
	require.NoError(t, err)
	return writeTempFile(t, "analysis.json", string(data))
}

func TestReconcileCommand(t *testing.T) {
	analysisPath := savedAnalysis(t)
	expectedPath := writeTempFile(t, "expected.csv",
		"Client Name,Amount\nAcme Corp,500.00\nGhost Inc,100.00\n")

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"reconcile", "--analysis", analysisPath, expectedPath})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Paid")
	assert.Contains(t, output, "Ghost Inc")
	assert.Contains(t, output, "Not Paid")
}

func TestReconcileCommand_JSON(t *testing.T) {
	analysisPath := savedAnalysis(t)
	expectedPath := writeTempFile(t, "expected.csv", "Client,Amount\nAcme Corp,300\n")

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"reconcile", "--analysis", analysisPath, "--json", expectedPath})

	require.NoError(t, cmd.Execute())

	var statuses []domain.PaymentStatus
	require.NoError(t, json.Unmarshal(out.Bytes(), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, domain.StatusPaymentExceeded, statuses[0].Status)
	assert.Equal(t, 200.0, statuses[0].Difference)
}

func TestReconcileCommand_NoSummaries(t *testing.T) {
	analysisPath := writeTempFile(t, "analysis.json", `{"summaries": []}`)
	expectedPath := writeTempFile(t, "expected.csv", "Client,Amount\nAcme,100\n")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"reconcile", "--analysis", analysisPath, expectedPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no client summaries")
}
