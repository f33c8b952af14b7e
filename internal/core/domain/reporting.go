package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementType is the kind of financial statement a report item belongs to.
type StatementType string

const (
	BalanceSheet StatementType = "BS"
	IncomeStmt   StatementType = "IS"
	CashFlow     StatementType = "CF"
)

// StatementTypes lists all statement kinds in display order.
var StatementTypes = []StatementType{BalanceSheet, IncomeStmt, CashFlow}

// CalcMode determines how an item's figure aggregates over time.
type CalcMode string

const (
	// CalcBalance sums across all periods up to and including the target.
	CalcBalance CalcMode = "BALANCE"
	// CalcActivity sums within the target period only.
	CalcActivity CalcMode = "ACTIVITY"
)

// ReportBasis is a named statement configuration (e.g. LEGAL, MGMT).
type ReportBasis struct {
	BasisID string `json:"basisID"`
	Code    string `json:"code"` // unique
	Name    string `json:"name"`
}

// ReportItem is a named line of a statement.
type ReportItem struct {
	ItemID        string        `json:"itemID"`
	StatementType StatementType `json:"statementType"`
	Code          string        `json:"code"` // unique within statement type
	Name          string        `json:"name"`
	DisplayOrder  int           `json:"displayOrder"`
	CalcMode      CalcMode      `json:"calcMode"`
}

// ReportMapping assigns an account (optionally with all descendants) to an
// item. An account may belong to at most one item per (basis, statement
// type); the constraint is enforced at generation time.
type ReportMapping struct {
	MappingID       string        `json:"mappingID"`
	BasisID         string        `json:"basisID"`
	StatementType   StatementType `json:"statementType"`
	ItemID          string        `json:"itemID"`
	AccountID       string        `json:"accountID"`
	IncludeChildren bool          `json:"includeChildren"`
}

// StatementLine is one rendered line of a generated statement.
type StatementLine struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Statements is the full set of generated statements for one snapshot.
type Statements struct {
	BS []StatementLine `json:"BS"`
	IS []StatementLine `json:"IS"`
	CF []StatementLine `json:"CF"`
}

// GenerationChecks records the balance-sheet consistency diagnostic.
// A failed check is a flag on the snapshot, not a generation error.
type GenerationChecks struct {
	BalanceOK       bool            `json:"balanceOK"`
	AssetsTotal     decimal.Decimal `json:"assetsTotal"`
	LiabEquityTotal decimal.Decimal `json:"liabEquityTotal"`
	Tolerance       decimal.Decimal `json:"tolerance"`
}

// ReportParams are the generation parameters hashed into the snapshot key.
type ReportParams struct {
	BookID    string `json:"book_id"`
	PeriodID  string `json:"period_id"`
	BasisCode string `json:"basis_code"`
}

// ReportResult is the snapshot body served to report consumers.
type ReportResult struct {
	Statements Statements       `json:"statements"`
	Checks     GenerationChecks `json:"checks"`
	Params     ReportParams     `json:"params"`
}

// GenerationLog is the diagnostic log stored alongside a snapshot.
type GenerationLog struct {
	BasisCode            string           `json:"basisCode"`
	ExpandedAccountCount int              `json:"expandedAccountCount"`
	Checks               GenerationChecks `json:"checks"`
	GeneratedAt          time.Time        `json:"generatedAt"`
}

// ReportSnapshot is a memoized generation result keyed by (book, params
// hash). Regeneration updates the row in place; any posting in the book
// flips IsStale.
type ReportSnapshot struct {
	SnapshotID  string        `json:"snapshotID"`
	BookID      string        `json:"bookID"`
	PeriodID    string        `json:"periodID"`
	BasisID     string        `json:"basisID"`
	ParamsHash  string        `json:"paramsHash"`
	GeneratedBy string        `json:"generatedBy"`
	GeneratedAt time.Time     `json:"generatedAt"`
	IsStale     bool          `json:"isStale"`
	Result      ReportResult  `json:"result"`
	Log         GenerationLog `json:"log"`
}

// ItemAccountAmount is one account's contribution to a statement item.
type ItemAccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// RegisterEntry is one split row of a drilldown register listing.
type RegisterEntry struct {
	TxnID       string          `json:"txnID"`
	VoucherNum  string          `json:"voucherNum"`
	TxnDate     time.Time       `json:"txnDate"`
	Description string          `json:"description"`
	LineNo      int             `json:"lineNo"`
	Value       decimal.Decimal `json:"value"` // sign-normalized
	Memo        string          `json:"memo"`
	Source      SourceRef       `json:"source"`
}

// SplitDetail is one split of a transaction with its account identity.
type SplitDetail struct {
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Value       decimal.Decimal `json:"value"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
}

// TransactionDetail is the full drill-through view of one transaction.
type TransactionDetail struct {
	Transaction Transaction         `json:"transaction"`
	Splits      []SplitDetail       `json:"splits"`
	SourceDoc   *SourceDocumentInfo `json:"sourceDoc,omitempty"`
}
