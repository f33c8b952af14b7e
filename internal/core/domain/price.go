package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price states that 1 unit of Commodity trades at Value units of Currency
// on PriceDate. Multiple rows may exist per pair/date from different
// sources; "latest applicable" is the max date <= as-of.
type Price struct {
	PriceID     string          `json:"priceID"`
	BookID      string          `json:"bookID"`
	CommodityID string          `json:"commodityID"`
	CurrencyID  string          `json:"currencyID"`
	PriceDate   time.Time       `json:"priceDate"`
	Source      string          `json:"source"` // USER/APP/IMPORT
	Type        string          `json:"type"`   // LAST/AVERAGE
	Value       decimal.Decimal `json:"value"`
}
