package models

import (
	"time"

	"gorm.io/datatypes"
)

// ShippingAddress extends Address with the same-as-billing flag.
type ShippingAddress struct {
	Address
	SameAsBilling bool `json:"sameAsBilling"`
}

// AltShippingAddress is an additional delivery address a customer keeps on
// file; selected at invoice time by its ID.
type AltShippingAddress struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	GSTNumber   string `json:"gstNumber"`
	Mobile      string `json:"mobile"`
	Address
}

type Customer struct {
	Id           uint   `json:"id" gorm:"primaryKey"`
	CustomerCode string `json:"customer_code" gorm:"not null;unique"`
	CustomerName string `json:"customer_name" gorm:"not null"`
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile" gorm:"not null;index"`
	AlternatePhone string `json:"alternate_phone"`
	GSTNumber    string `json:"gst_number"`
	PANNumber    string `json:"pan_number"`

	BillingAddress    datatypes.JSONType[Address]              `json:"billing_address" gorm:"type:jsonb"`
	ShippingAddress   datatypes.JSONType[ShippingAddress]      `json:"shipping_address" gorm:"type:jsonb"`
	ShippingAddresses datatypes.JSONType[[]AltShippingAddress] `json:"shipping_addresses" gorm:"type:jsonb"`

	CustomerType string  `json:"customer_type" gorm:"type:VARCHAR(20);default:'Regular'"`
	CreditLimit  float64 `json:"credit_limit" gorm:"type:numeric(12,2)"`
	CreditDays   int     `json:"credit_days"`

	// Aggregates maintained by the invoice engine.
	OutstandingBalance float64 `json:"outstanding_balance" gorm:"type:numeric(12,2)"`
	TotalPurchases     float64 `json:"total_purchases" gorm:"type:numeric(12,2)"`
	TotalInvoices      int     `json:"total_invoices"`

	Notes  string `json:"notes"`
	Active bool   `json:"-" gorm:"default:true"`

	CreatedByID string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResolveShippingAddress picks the address an invoice ships to: an explicit
// alternate address by id, else the default shipping address (billing when
// flagged same-as-billing), else billing.
func (cust *Customer) ResolveShippingAddress(shippingAddressID string) Address {
	if shippingAddressID != "" {
		for _, alt := range cust.ShippingAddresses.Data() {
			if alt.ID == shippingAddressID {
				return alt.Address
			}
		}
	}
	ship := cust.ShippingAddress.Data()
	if ship.SameAsBilling || ship.Address == (Address{}) {
		return cust.BillingAddress.Data()
	}
	return ship.Address
}
