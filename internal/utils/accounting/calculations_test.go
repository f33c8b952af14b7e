package accounting_test

import (
	"testing"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/finbooks-io/ledger_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(no int, debit, credit string) domain.DraftLine {
	return domain.DraftLine{
		LineNo: no,
		Debit:  decimal.RequireFromString(debit),
		Credit: decimal.RequireFromString(credit),
	}
}

func TestValidateDraftLines_Valid(t *testing.T) {
	lines := []domain.DraftLine{
		line(1, "100", "0"),
		line(2, "0", "60"),
		line(3, "0", "40"),
	}
	require.NoError(t, accounting.ValidateDraftLines(lines))
}

func TestValidateDraftLines_TooFewLines(t *testing.T) {
	err := accounting.ValidateDraftLines([]domain.DraftLine{line(1, "100", "0")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two lines")
}

func TestValidateDraftLines_BothSidesSet(t *testing.T) {
	lines := []domain.DraftLine{
		line(1, "100", "10"),
		line(2, "0", "90"),
	}
	err := accounting.ValidateDraftLines(lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestValidateDraftLines_EmptyLine(t *testing.T) {
	lines := []domain.DraftLine{
		line(1, "100", "0"),
		line(2, "0", "0"),
	}
	err := accounting.ValidateDraftLines(lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestValidateDraftLines_NegativeAmount(t *testing.T) {
	lines := []domain.DraftLine{
		line(1, "-100", "0"),
		line(2, "0", "-100"),
	}
	err := accounting.ValidateDraftLines(lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestValidateDraftLines_Unbalanced(t *testing.T) {
	lines := []domain.DraftLine{
		line(1, "100", "0"),
		line(2, "0", "90"),
	}
	err := accounting.ValidateDraftLines(lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not balance")
}

func TestFormatVoucherNum(t *testing.T) {
	assert.Equal(t, "202601-000042", accounting.FormatVoucherNum(2026, 1, 42))
	assert.Equal(t, "202612-000001", accounting.FormatVoucherNum(2026, 12, 1))
	assert.Equal(t, "202607-123456", accounting.FormatVoucherNum(2026, 7, 123456))
}

func TestNormalizedValue(t *testing.T) {
	v := decimal.NewFromInt(-50)

	assert.True(t, accounting.NormalizedValue(v, domain.Liability).Equal(decimal.NewFromInt(50)))
	assert.True(t, accounting.NormalizedValue(v, domain.Income).Equal(decimal.NewFromInt(50)))
	assert.True(t, accounting.NormalizedValue(v, domain.Payable).Equal(decimal.NewFromInt(50)))
	assert.True(t, accounting.NormalizedValue(v, domain.Asset).Equal(decimal.NewFromInt(-50)))
	assert.True(t, accounting.NormalizedValue(v, domain.Expense).Equal(decimal.NewFromInt(-50)))
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   string
	}{
		{"10.005", 2, "10.01"},
		{"10.004", 2, "10"},
		{"-10.005", 2, "-10.01"},
		{"9.999999", 2, "10"},
		{"72", 2, "72"},
	}
	for _, tc := range cases {
		got := accounting.RoundHalfUp(decimal.RequireFromString(tc.in), tc.places)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "round(%s, %d) = %s, want %s", tc.in, tc.places, got, tc.want)
	}
}
