package domain

// CheckCode identifies one precheck rule.
type CheckCode string

const (
	CheckDraftExists      CheckCode = "DRAFT_EXISTS"
	CheckMinSplits        CheckCode = "MIN_SPLITS"
	CheckBalanceValueZero CheckCode = "BALANCE_VALUE_ZERO"
	CheckPeriodOpen       CheckCode = "PERIOD_OPEN"
	CheckAccountAllowPost CheckCode = "ACCOUNT_ALLOW_POST"
	CheckIdempotency      CheckCode = "IDEMPOTENCY"
)

// PrecheckItem is one structured result of a posting precheck rule.
type PrecheckItem struct {
	Code    CheckCode      `json:"code"`
	Passed  bool           `json:"passed"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// PrecheckResult aggregates all rule results; OK is the logical AND.
type PrecheckResult struct {
	OK     bool           `json:"ok"`
	Checks []PrecheckItem `json:"checks"`
}

// PostResult identifies the transaction produced (or found) by a post call.
type PostResult struct {
	TxnID      string `json:"txnID"`
	VoucherNum string `json:"voucherNum"`
}
