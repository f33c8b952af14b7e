package domain

import (
	"fmt"
	"time"
)

// SourceType identifies the business process that produced a draft.
type SourceType string

const (
	SourceManual              SourceType = "MANUAL"
	SourcePurchaseOrder       SourceType = "PURCHASE_ORDER"
	SourceSalesOrder          SourceType = "SALES_ORDER"
	SourceExpenseClaim        SourceType = "EXPENSE_CLAIM"
	SourceInvoiceAR           SourceType = "INVOICE_AR"
	SourceInvoiceAP           SourceType = "INVOICE_AP"
	SourcePaymentReceipt      SourceType = "PAYMENT_RECEIPT"
	SourcePaymentDisbursement SourceType = "PAYMENT_DISBURSEMENT"
	SourceScheduled           SourceType = "SCHEDULED"
)

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceManual, SourcePurchaseOrder, SourceSalesOrder, SourceExpenseClaim,
		SourceInvoiceAR, SourceInvoiceAP, SourcePaymentReceipt,
		SourcePaymentDisbursement, SourceScheduled:
		return true
	}
	return false
}

// SourceRef is the (source_type, source_id, version) tuple. Together with
// the book it is the system-wide idempotency key: at most one posted
// transaction may ever exist for it.
type SourceRef struct {
	Type    SourceType `json:"sourceType"`
	ID      string     `json:"sourceID"`
	Version int        `json:"version"`
}

// IdempotencyKey renders the canonical string form stored on transactions
// and guarded by a unique constraint.
func (s SourceRef) IdempotencyKey() string {
	return fmt.Sprintf("%s:%s:%d", s.Type, s.ID, s.Version)
}

// IsBusinessDocument reports whether the source is a purchase/sales/expense document.
func (s SourceRef) IsBusinessDocument() bool {
	switch s.Type {
	case SourcePurchaseOrder, SourceSalesOrder, SourceExpenseClaim:
		return true
	}
	return false
}

// IsInvoice reports whether the source is an AR/AP invoice.
func (s SourceRef) IsInvoice() bool {
	return s.Type == SourceInvoiceAR || s.Type == SourceInvoiceAP
}

// IsPayment reports whether the source is a receipt or disbursement.
func (s SourceRef) IsPayment() bool {
	return s.Type == SourcePaymentReceipt || s.Type == SourcePaymentDisbursement
}

// SourceDocumentInfo is the identity/status snapshot of an originating
// business document, returned by drilldown for traceability.
type SourceDocumentInfo struct {
	DocType     string    `json:"docType"`
	DocID       string    `json:"docID"`
	DocNo       string    `json:"docNo"`
	Status      string    `json:"status"`
	DocDate     time.Time `json:"docDate"`
	Description string    `json:"description"`
	RevisionNo  int       `json:"revisionNo"`
	DraftID     string    `json:"draftID,omitempty"`
}
