package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BankDetails are printed on invoices when enabled.
type BankDetails struct {
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	AccountHolderName string `json:"accountHolderName"`
	IFSCCode          string `json:"ifscCode"`
	BranchName        string `json:"branchName"`
	UPIID             string `json:"upiId"`
}

// Branding holds the color scheme used on printed documents.
type Branding struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
}

// InvoiceSettings gate the optional blocks of the printed document.
type InvoiceSettings struct {
	DefaultPrefix       string `json:"defaultPrefix"`
	DefaultTemplate     string `json:"defaultTemplate"`
	ShowLogo            bool   `json:"showLogo"`
	ShowGST             bool   `json:"showGST"`
	ShowBankDetails     bool   `json:"showBankDetails"`
	ShowSignature       bool   `json:"showSignature"`
	AuthorizedSignatory string `json:"authorizedSignatory"`
	DefaultTerms        string `json:"defaultTerms"`
	DefaultNotes        string `json:"defaultNotes"`
	FooterText          string `json:"footerText"`
	ShowFooter          bool   `json:"showFooter"`
}

// TaxSettings configure GST defaults.
type TaxSettings struct {
	GSTEnabled     bool    `json:"gstEnabled"`
	DefaultTaxRate float64 `json:"defaultTaxRate"`
}

// CompanyProfile is the single active company record consumed by the invoice
// renderer and the interstate tax determination.
type CompanyProfile struct {
	Id          string `json:"id" gorm:"primaryKey"`
	CompanyName string `json:"company_name" gorm:"not null"`
	Tagline     string `json:"tagline"`
	Logo        string `json:"logo"` // file path, optional
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	GSTNumber   string `json:"gst_number"`
	PANNumber   string `json:"pan_number"`
	CINNumber   string `json:"cin_number"`

	Address         datatypes.JSONType[Address]         `json:"address" gorm:"type:jsonb"`
	BankDetails     datatypes.JSONType[BankDetails]     `json:"bank_details" gorm:"type:jsonb"`
	Branding        datatypes.JSONType[Branding]        `json:"branding" gorm:"type:jsonb"`
	InvoiceSettings datatypes.JSONType[InvoiceSettings] `json:"invoice_settings" gorm:"type:jsonb"`
	TaxSettings     datatypes.JSONType[TaxSettings]     `json:"tax_settings" gorm:"type:jsonb"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (profile *CompanyProfile) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if profile.Id == "" {
		profile.Id = uuid.NewString()
	}
	return
}

// PrimaryColor returns the branding primary color with the application
// default as fallback.
func (profile *CompanyProfile) PrimaryColor() string {
	if c := profile.Branding.Data().PrimaryColor; c != "" {
		return c
	}
	return "#667eea"
}

// SecondaryColor returns the branding secondary color with fallback.
func (profile *CompanyProfile) SecondaryColor() string {
	if c := profile.Branding.Data().SecondaryColor; c != "" {
		return c
	}
	return "#764ba2"
}

// State returns the company's registered state for the CGST/SGST vs IGST
// determination.
func (profile *CompanyProfile) State() string {
	return profile.Address.Data().State
}
