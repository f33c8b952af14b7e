package accounting

import (
	"fmt"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NormalizedValue flips the sign of a split value for credit-normal
// account types (liability/equity/income/AP) so that reported figures
// read positively in their natural direction. Used in both the report
// engine and drilldown to keep the two consistent.
func NormalizedValue(value decimal.Decimal, accountType domain.AccountType) decimal.Decimal {
	if accountType.IsCreditNormal() {
		return value.Neg()
	}
	return value
}

// RoundHalfUp rounds to the given number of decimal places with ties
// going away from zero. Applied only when converting a split value into
// the account commodity's amount; nowhere else.
func RoundHalfUp(v decimal.Decimal, places int32) decimal.Decimal {
	return v.Round(places)
}

// FormatVoucherNum renders the human-facing sequential identifier of a
// posted transaction, e.g. 202601-000042.
func FormatVoucherNum(year, month int, seq int64) string {
	return fmt.Sprintf("%d%02d-%06d", year, month, seq)
}

// ValidateDraftLines checks the structural rules of a draft line set:
// at least two lines, each line one-sided and non-negative, and the
// signed values summing to zero. The returned error names the first
// offending line.
func ValidateDraftLines(lines []domain.DraftLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("draft must have at least two lines, got %d", len(lines))
	}

	sum := decimal.Zero
	for _, ln := range lines {
		if ln.Debit.IsNegative() || ln.Credit.IsNegative() {
			return fmt.Errorf("line %d: debit and credit must be non-negative", ln.LineNo)
		}
		if !ln.Debit.IsZero() && !ln.Credit.IsZero() {
			return fmt.Errorf("line %d: debit and credit cannot both be set", ln.LineNo)
		}
		if ln.Debit.IsZero() && ln.Credit.IsZero() {
			return fmt.Errorf("line %d: one of debit or credit must be non-zero", ln.LineNo)
		}
		sum = sum.Add(ln.Value())
	}

	if !sum.IsZero() {
		return fmt.Errorf("draft lines do not balance to zero: sum is %s", sum.String())
	}
	return nil
}
