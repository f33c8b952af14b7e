package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset      AccountType = "ASSET"
	Liability  AccountType = "LIABILITY"
	Equity     AccountType = "EQUITY"
	Income     AccountType = "INCOME"
	Expense    AccountType = "EXPENSE"
	Receivable AccountType = "AR"
	Payable    AccountType = "AP"
	Cash       AccountType = "CASH"
	Bank       AccountType = "BANK"
)

// creditNormal holds the account types whose natural balance is a credit;
// their split values are sign-flipped when reported.
var creditNormal = map[AccountType]bool{
	Liability: true,
	Equity:    true,
	Income:    true,
	Payable:   true,
}

// IsCreditNormal reports whether the type carries a natural credit balance.
func (t AccountType) IsCreditNormal() bool {
	return creditNormal[t]
}

// IsCashLike reports whether the type participates in cash-flow roll-ups.
func (t AccountType) IsCashLike() bool {
	return t == Cash || t == Bank
}

// CommodityType distinguishes currencies from other priced commodities.
type CommodityType string

const (
	CommodityCurrency CommodityType = "CURRENCY"
	CommoditySecurity CommodityType = "SECURITY"
)

// Commodity is a currency or security with a configured decimal precision.
// Split amounts are rounded to the account commodity's precision.
type Commodity struct {
	CommodityID string        `json:"commodityID"`
	Type        CommodityType `json:"type"`
	Code        string        `json:"code"` // e.g. "USD"
	Name        string        `json:"name"`
	Precision   int32         `json:"precision"` // decimal places, default 2
}

// Account is a node in a per-book account tree.
type Account struct {
	AccountID     string      `json:"accountID"`
	BookID        string      `json:"bookID"`
	ParentID      string      `json:"parentID"` // empty for root accounts
	Code          string      `json:"code"`     // unique within the book
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	AccountType   AccountType `json:"accountType"`
	CommodityID   string      `json:"commodityID"`
	AllowPost     bool        `json:"allowPost"`
	IsActive      bool        `json:"isActive"`
	IsHidden      bool        `json:"isHidden"`
	IsPlaceholder bool        `json:"isPlaceholder"`
}

// Postable reports whether splits may land on this account. Placeholder
// accounts never post regardless of their allow_post flag.
func (a Account) Postable() bool {
	return a.IsActive && a.AllowPost && !a.IsPlaceholder
}
