package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gstbilling-backend/utils"
)

// Invoice document types. Each maps to a 3-letter code used in the number.
const (
	TypeTaxInvoice      = "Tax Invoice"
	TypeProformaInvoice = "Proforma Invoice"
	TypeCreditNote      = "Credit Note"
	TypeDebitNote       = "Debit Note"
	TypeEstimate        = "Estimate"
	TypeQuotation       = "Quotation"
)

// Lifecycle status values. Draft is the only mutable/deletable state;
// Paid and Cancelled are terminal.
const (
	StatusDraft     = "Draft"
	StatusSent      = "Sent"
	StatusViewed    = "Viewed"
	StatusPaid      = "Paid"
	StatusCancelled = "Cancelled"
	StatusOverdue   = "Overdue"
)

// Payment status values. Derived from paidAmount vs grandTotal vs dueDate,
// never set directly.
const (
	PaymentUnpaid  = "Unpaid"
	PaymentPartial = "Partially Paid"
	PaymentPaid    = "Paid"
	PaymentOverdue = "Overdue"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Address is a postal address stored as jsonb inside snapshots.
type Address struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Pincode      string `json:"pincode"`
}

// CustomerSnapshot is the immutable copy of the customer taken at creation
// time, so historical invoices stay stable when the customer record changes.
type CustomerSnapshot struct {
	CustomerCode    string  `json:"customerCode"`
	CustomerName    string  `json:"customerName"`
	CompanyName     string  `json:"companyName"`
	Email           string  `json:"email"`
	Mobile          string  `json:"mobile"`
	GSTNumber       string  `json:"gstNumber"`
	BillingAddress  Address `json:"billingAddress"`
	ShippingAddress Address `json:"shippingAddress"`
}

// Invoice is the central billing aggregate.
type Invoice struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	InvoiceNumber string `json:"invoice_number" gorm:"unique"`
	InvoiceType   string `json:"invoice_type" gorm:"type:VARCHAR(20);default:'Tax Invoice'"`
	TemplateType  string `json:"template_type" gorm:"type:VARCHAR(20);default:'Classic'"`

	InvoiceDate  time.Time  `json:"invoice_date" gorm:"index"`
	DueDate      *time.Time `json:"due_date"`
	PaymentTerms string     `json:"payment_terms"`

	CustomerID      uint                                 `json:"-" gorm:"index"`
	Customer        Customer                             `json:"customer" gorm:"foreignKey:CustomerID;references:Id"`
	CustomerDetails datatypes.JSONType[CustomerSnapshot] `json:"customer_details" gorm:"type:jsonb"`

	Items []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	// Aggregates, recomputed in full on every mutating write.
	Subtotal        float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	TotalDiscount   float64 `json:"total_discount" gorm:"type:numeric(12,2)"`
	TotalCGST       float64 `json:"total_cgst" gorm:"type:numeric(12,2)"`
	TotalSGST       float64 `json:"total_sgst" gorm:"type:numeric(12,2)"`
	TotalIGST       float64 `json:"total_igst" gorm:"type:numeric(12,2)"`
	TotalTax        float64 `json:"total_tax" gorm:"type:numeric(12,2)"`
	ShippingCharges float64 `json:"shipping_charges" gorm:"type:numeric(12,2)"`
	OtherCharges    float64 `json:"other_charges" gorm:"type:numeric(12,2)"`
	RoundOff        float64 `json:"round_off" gorm:"type:numeric(12,2)"`
	GrandTotal      float64 `json:"grand_total" gorm:"type:numeric(12,2)"`
	AmountInWords   string  `json:"amount_in_words"`

	// Payments rollup
	PaidAmount    float64        `json:"paid_amount" gorm:"type:numeric(12,2)"`
	BalanceAmount float64        `json:"balance_amount" gorm:"type:numeric(12,2)"`
	PaymentStatus string         `json:"payment_status" gorm:"type:VARCHAR(20);default:'Unpaid';index"`
	Payments      []PaymentEntry `json:"payment_history" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	Status string `json:"status" gorm:"type:VARCHAR(20);default:'Draft';index"`

	Notes              string `json:"notes"`
	TermsAndConditions string `json:"terms_and_conditions"`

	IsEmailSent   bool       `json:"is_email_sent"`
	EmailSentDate *time.Time `json:"email_sent_date"`
	IsPrinted     bool       `json:"is_printed"`
	PrintedDate   *time.Time `json:"printed_date"`
	PrintCount    int        `json:"print_count"`
	PDFPath       string     `json:"pdf_path"`

	CreatedByID string `json:"created_by"`
	UpdatedByID string `json:"updated_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is a priced line of its parent invoice. Position preserves the
// insertion order for the printed document.
type InvoiceItem struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	InvoiceID uint `json:"-" gorm:"index"`
	Position  int  `json:"position"`

	ProductID   *string `json:"item_id" gorm:"index"`
	ItemName    string  `json:"item_name" gorm:"not null"`
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
	HSNCode     string  `json:"hsn_code"`

	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit" gorm:"default:'Pcs'"`
	Rate         float64 `json:"rate" gorm:"type:numeric(12,2)"`
	Discount     float64 `json:"discount"`
	DiscountType string  `json:"discount_type" gorm:"type:VARCHAR(10);default:'percentage'"`
	TaxRate      float64 `json:"tax_rate"`

	CGST        float64 `json:"cgst" gorm:"type:numeric(12,2)"`
	SGST        float64 `json:"sgst" gorm:"type:numeric(12,2)"`
	IGST        float64 `json:"igst" gorm:"type:numeric(12,2)"`
	TotalAmount float64 `json:"total_amount" gorm:"type:numeric(12,2)"`
}

// PaymentEntry is an append-only record of a received payment.
type PaymentEntry struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	InvoiceID    uint      `json:"invoice_id" gorm:"index:idx_payment_entries_invoice_paid_at,priority:1"`
	Amount       float64   `json:"amount" gorm:"type:numeric(12,2)"`
	PaymentMode  string    `json:"payment_mode"`
	Reference    string    `json:"reference"`
	Notes        string    `json:"notes"`
	ReceivedByID string    `json:"received_by"`
	PaidAt       time.Time `json:"paid_at" gorm:"index:idx_payment_entries_invoice_paid_at,priority:2"`
	CreatedAt    time.Time `json:"created_at"`
}

// TypeCode maps an invoice type to the 3-letter code embedded in numbers.
func TypeCode(invoiceType string) string {
	switch invoiceType {
	case TypeProformaInvoice:
		return "PRO"
	case TypeCreditNote:
		return "CRN"
	case TypeDebitNote:
		return "DBN"
	case TypeEstimate:
		return "EST"
	case TypeQuotation:
		return "QTN"
	default:
		return "INV"
	}
}

// SequenceKey builds the counter key {typeCode}{YY}{MM} from the issue date,
// so backdated invoices file under their own month's counter.
func SequenceKey(invoiceType string, issueDate time.Time) string {
	return TypeCode(invoiceType) + issueDate.Format("0601")
}

// FormatInvoiceNumber renders {TypeCode}/{YY}{MM}/{NNNN}.
func FormatInvoiceNumber(invoiceType string, issueDate time.Time, seq int64) string {
	return fmt.Sprintf("%s/%s/%04d", TypeCode(invoiceType), issueDate.Format("0601"), seq)
}

var statusTransitions = map[string][]string{
	StatusDraft:   {StatusSent, StatusCancelled},
	StatusSent:    {StatusViewed, StatusPaid, StatusOverdue, StatusCancelled},
	StatusViewed:  {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue: {StatusPaid, StatusCancelled},
	// Paid and Cancelled are terminal.
}

// CanTransition reports whether the lifecycle status may move from -> to.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusPaid, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}

// Recompute derives balanceAmount and paymentStatus from paidAmount,
// grandTotal and dueDate. Every mutating path goes through here (via the
// BeforeSave hook), keeping the derivation in exactly one place.
func (inv *Invoice) Recompute(now time.Time) {
	inv.BalanceAmount = utils.Round2(inv.GrandTotal - inv.PaidAmount)

	switch {
	case inv.PaidAmount <= 0:
		inv.PaymentStatus = PaymentUnpaid
	case inv.PaidAmount >= inv.GrandTotal:
		inv.PaymentStatus = PaymentPaid
	default:
		inv.PaymentStatus = PaymentPartial
	}

	if inv.DueDate != nil && now.After(*inv.DueDate) && inv.PaymentStatus != PaymentPaid {
		inv.PaymentStatus = PaymentOverdue
	}
}

func (inv *Invoice) BeforeSave(tx *gorm.DB) error {
	inv.Recompute(time.Now())
	return nil
}

// Snapshot returns the stored customer details.
func (inv *Invoice) Snapshot() CustomerSnapshot {
	return inv.CustomerDetails.Data()
}
