package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gstbilling-backend/database"
	"gstbilling-backend/models"
	"gstbilling-backend/pdf"
	"gstbilling-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceItemInput struct {
	ItemID       string   `json:"itemId"`
	ItemName     string   `json:"itemName"`
	Description  string   `json:"description"`
	HSNCode      string   `json:"hsnCode"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	Rate         *float64 `json:"rate"`
	Discount     float64  `json:"discount"`
	DiscountType string   `json:"discountType"`
	TaxRate      *float64 `json:"taxRate"`
}

type InvoiceInput struct {
	Customer           uint               `json:"customer"`
	Items              []InvoiceItemInput `json:"items"`
	InvoiceDate        string             `json:"invoiceDate"`
	DueDate            string             `json:"dueDate"`
	PaymentTerms       string             `json:"paymentTerms"`
	ShippingCharges    float64            `json:"shippingCharges"`
	OtherCharges       float64            `json:"otherCharges"`
	Notes              string             `json:"notes"`
	TermsAndConditions string             `json:"termsAndConditions"`
	InvoiceType        string             `json:"invoiceType"`
	TemplateType       string             `json:"templateType"`
	ShippingAddressID  string             `json:"shippingAddressId"`
}

type invoiceTotals struct {
	Subtotal      float64
	TotalDiscount float64
	TotalCGST     float64
	TotalSGST     float64
	TotalIGST     float64
}

// parseDate accepts RFC3339 or plain yyyy-mm-dd.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

// resolveCompanyState reads the active company profile's state, falling back
// to the COMPANY_STATE env var when no profile is configured.
func resolveCompanyState(db *gorm.DB) string {
	var profile models.CompanyProfile
	if err := db.Where("is_active = ?", true).First(&profile).Error; err == nil {
		if state := profile.State(); state != "" {
			return state
		}
	}
	return os.Getenv("COMPANY_STATE")
}

// loadProducts resolves every referenced product up front so stock checks run
// before any write.
func loadProducts(db *gorm.DB, inputs []InvoiceItemInput) (map[string]*models.Product, error) {
	products := make(map[string]*models.Product)
	for _, in := range inputs {
		if in.ItemID == "" {
			continue
		}
		if _, ok := products[in.ItemID]; ok {
			continue
		}
		var product models.Product
		if err := db.First(&product, "id = ?", in.ItemID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Item %s not found", in.ItemName))
		}
		products[in.ItemID] = &product
	}
	return products, nil
}

// computeInvoiceLines validates stock sufficiency for every tracked line and
// computes per-line discount, tax split and totals. Runs before any write, so
// a multi-item invoice either fully passes or is rejected untouched.
func computeInvoiceLines(inputs []InvoiceItemInput, products map[string]*models.Product, customerState, companyState string) ([]models.InvoiceItem, invoiceTotals, error) {
	items := make([]models.InvoiceItem, 0, len(inputs))
	var totals invoiceTotals

	// Requested quantity is accumulated per product so several lines of the
	// same item are checked against stock as one combined ask.
	requested := make(map[string]float64)

	for i, in := range inputs {
		if in.Quantity < 0 {
			return nil, invoiceTotals{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid quantity at item %d", i+1))
		}

		var product *models.Product
		if in.ItemID != "" {
			product = products[in.ItemID]
			if product == nil {
				return nil, invoiceTotals{}, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Item %s not found", in.ItemName))
			}
			requested[in.ItemID] += in.Quantity
			if level := product.Stock(); level.Tracked && level.Quantity < requested[in.ItemID] {
				return nil, invoiceTotals{}, fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Insufficient stock for %s. Available: %g", product.Name, level.Quantity))
			}
		}

		rate := 0.0
		switch {
		case in.Rate != nil:
			rate = *in.Rate
		case product != nil:
			rate = product.Price
		}
		if rate < 0 {
			return nil, invoiceTotals{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid rate at item %d", i+1))
		}

		base := rate * in.Quantity
		discountType := in.DiscountType
		if discountType == "" {
			discountType = models.DiscountPercentage
		}
		discount := utils.DiscountAmount(base, in.Discount, discountType)
		taxable := base - discount

		taxRate := 0.0
		switch {
		case in.TaxRate != nil:
			taxRate = *in.TaxRate
		case product != nil:
			taxRate = product.GSTPercent
		}
		split := utils.SplitTax(taxable, taxRate, customerState, companyState)

		item := models.InvoiceItem{
			Position:     i + 1,
			ItemName:     strings.TrimSpace(in.ItemName),
			Description:  in.Description,
			HSNCode:      in.HSNCode,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
			Rate:         rate,
			Discount:     in.Discount,
			DiscountType: discountType,
			TaxRate:      taxRate,
			CGST:         split.CGST,
			SGST:         split.SGST,
			IGST:         split.IGST,
			TotalAmount:  taxable + split.Total(),
		}
		if product != nil {
			id := product.Id
			item.ProductID = &id
			item.ItemCode = product.Code
			if item.ItemName == "" {
				item.ItemName = product.Name
			}
			if item.Description == "" {
				item.Description = product.Description
			}
			if item.HSNCode == "" {
				item.HSNCode = product.HSNCode
			}
			if item.Unit == "" {
				item.Unit = product.Unit
			}
		}
		if item.ItemName == "" {
			item.ItemName = "Custom Item"
		}
		if item.Unit == "" {
			item.Unit = "Pcs"
		}

		totals.Subtotal += base
		totals.TotalDiscount += discount
		totals.TotalCGST += split.CGST
		totals.TotalSGST += split.SGST
		totals.TotalIGST += split.IGST

		items = append(items, item)
	}

	return items, totals, nil
}

// ensureTotalCoversPaid rejects a reworked draft whose new grand total falls
// below what has already been collected against it; the derived balance must
// never go negative.
func ensureTotalCoversPaid(grandTotal, paidAmount float64) error {
	if grandTotal < paidAmount {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Grand total cannot be less than amount already paid (%.2f)", paidAmount))
	}
	return nil
}

func invoiceID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid invoice ID")
	}
	return uint(id), nil
}

func CreateInvoice(c *fiber.Ctx) error {
	var input InvoiceInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if input.Customer == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Customer is required")
	}
	if len(input.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "At least one item is required")
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var customer models.Customer
	if err := db.First(&customer, input.Customer).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}

	products, err := loadProducts(db, input.Items)
	if err != nil {
		return err
	}

	companyState := resolveCompanyState(db)
	items, totals, err := computeInvoiceLines(input.Items, products, customer.BillingAddress.Data().State, companyState)
	if err != nil {
		return err
	}

	shipping := utils.Round2(input.ShippingCharges)
	other := utils.Round2(input.OtherCharges)
	totalTax := totals.TotalCGST + totals.TotalSGST + totals.TotalIGST
	beforeRound := totals.Subtotal - totals.TotalDiscount + totalTax + shipping + other
	grandTotal := utils.RoundRupee(beforeRound)
	roundOff := utils.Round2(grandTotal - beforeRound)

	invoiceDate := time.Now()
	if d := parseDate(input.InvoiceDate); d != nil {
		invoiceDate = *d
	}
	var dueDate *time.Time
	if d := parseDate(input.DueDate); d != nil {
		dueDate = d
	} else if customer.CreditDays > 0 {
		d := invoiceDate.AddDate(0, 0, customer.CreditDays)
		dueDate = &d
	}
	paymentTerms := input.PaymentTerms
	if paymentTerms == "" {
		if customer.CreditDays > 0 {
			paymentTerms = fmt.Sprintf("%d Days", customer.CreditDays)
		} else {
			paymentTerms = "Immediate"
		}
	}

	invoiceType := input.InvoiceType
	if invoiceType == "" {
		invoiceType = models.TypeTaxInvoice
	}
	templateType := input.TemplateType
	if templateType == "" {
		templateType = "Classic"
	}

	// Atomic increment-and-fetch; any failure aborts creation. The increment
	// rides on the request TX, so an aborted create does not burn a number.
	seq, err := models.NextSequence(db, models.SequenceKey(invoiceType, invoiceDate))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not allocate invoice number")
	}

	actor, _ := c.Locals("userID").(string)

	snapshot := models.CustomerSnapshot{
		CustomerCode:    customer.CustomerCode,
		CustomerName:    customer.CustomerName,
		CompanyName:     customer.CompanyName,
		Email:           customer.Email,
		Mobile:          customer.Mobile,
		GSTNumber:       customer.GSTNumber,
		BillingAddress:  customer.BillingAddress.Data(),
		ShippingAddress: customer.ResolveShippingAddress(input.ShippingAddressID),
	}

	invoice := models.Invoice{
		InvoiceNumber:      models.FormatInvoiceNumber(invoiceType, invoiceDate, seq),
		InvoiceType:        invoiceType,
		TemplateType:       templateType,
		InvoiceDate:        invoiceDate,
		DueDate:            dueDate,
		PaymentTerms:       paymentTerms,
		CustomerID:         customer.Id,
		CustomerDetails:    datatypes.NewJSONType(snapshot),
		Items:              items,
		Subtotal:           utils.Round2(totals.Subtotal),
		TotalDiscount:      utils.Round2(totals.TotalDiscount),
		TotalCGST:          utils.Round2(totals.TotalCGST),
		TotalSGST:          utils.Round2(totals.TotalSGST),
		TotalIGST:          utils.Round2(totals.TotalIGST),
		TotalTax:           utils.Round2(totalTax),
		ShippingCharges:    shipping,
		OtherCharges:       other,
		RoundOff:           roundOff,
		GrandTotal:         grandTotal,
		AmountInWords:      utils.AmountInWords(grandTotal),
		Notes:              input.Notes,
		TermsAndConditions: input.TermsAndConditions,
		Status:             models.StatusDraft,
		CreatedByID:        actor,
	}

	if err := db.Create(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not create invoice")
	}

	// Stock and ledger writes share the request TX with the invoice insert.
	for i := range invoice.Items {
		item := &invoice.Items[i]
		if item.ProductID == nil {
			continue
		}
		if _, err := models.RecordSale(db, products[*item.ProductID], item, &invoice, actor); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record stock movement")
		}
	}

	err = db.Model(&models.Customer{}).Where("id = ?", customer.Id).Updates(map[string]any{
		"total_invoices":      gorm.Expr("total_invoices + 1"),
		"total_purchases":     gorm.Expr("total_purchases + ?", invoice.GrandTotal),
		"outstanding_balance": gorm.Expr("outstanding_balance + ?", invoice.GrandTotal),
	}).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer totals")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Invoice created successfully",
		"data":    invoice,
	})
}

func UpdateInvoice(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	var input InvoiceInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if len(input.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "At least one item is required")
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoice models.Invoice
	if err := db.Preload("Items").First(&invoice, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}
	if invoice.Status != models.StatusDraft {
		return fiber.NewError(fiber.StatusBadRequest, "Only draft invoices can be updated")
	}

	var customer models.Customer
	if err := db.First(&customer, invoice.CustomerID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}

	// Put the old items' stock back (and drop their ledger entries) before
	// re-validating availability for the new lines.
	if err := models.ReverseInvoice(db, &invoice); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not reverse stock")
	}

	products, err := loadProducts(db, input.Items)
	if err != nil {
		return err
	}

	companyState := resolveCompanyState(db)
	items, totals, err := computeInvoiceLines(input.Items, products, customer.BillingAddress.Data().State, companyState)
	if err != nil {
		return err
	}

	shipping := utils.Round2(input.ShippingCharges)
	other := utils.Round2(input.OtherCharges)
	totalTax := totals.TotalCGST + totals.TotalSGST + totals.TotalIGST
	beforeRound := totals.Subtotal - totals.TotalDiscount + totalTax + shipping + other
	grandTotal := utils.RoundRupee(beforeRound)
	roundOff := utils.Round2(grandTotal - beforeRound)

	// Drafts accept payments, so the rework must still cover them.
	if err := ensureTotalCoversPaid(grandTotal, invoice.PaidAmount); err != nil {
		return err
	}

	oldGrand := invoice.GrandTotal

	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not replace invoice items")
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	if err := db.Create(&items).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not replace invoice items")
	}

	if d := parseDate(input.InvoiceDate); d != nil {
		invoice.InvoiceDate = *d
	}
	if d := parseDate(input.DueDate); d != nil {
		invoice.DueDate = d
	}
	if input.PaymentTerms != "" {
		invoice.PaymentTerms = input.PaymentTerms
	}
	if input.TemplateType != "" {
		invoice.TemplateType = input.TemplateType
	}

	actor, _ := c.Locals("userID").(string)

	invoice.Items = items
	invoice.Subtotal = utils.Round2(totals.Subtotal)
	invoice.TotalDiscount = utils.Round2(totals.TotalDiscount)
	invoice.TotalCGST = utils.Round2(totals.TotalCGST)
	invoice.TotalSGST = utils.Round2(totals.TotalSGST)
	invoice.TotalIGST = utils.Round2(totals.TotalIGST)
	invoice.TotalTax = utils.Round2(totalTax)
	invoice.ShippingCharges = shipping
	invoice.OtherCharges = other
	invoice.RoundOff = roundOff
	invoice.GrandTotal = grandTotal
	invoice.AmountInWords = utils.AmountInWords(grandTotal)
	invoice.Notes = input.Notes
	invoice.TermsAndConditions = input.TermsAndConditions
	invoice.UpdatedByID = actor

	if err := db.Omit(clause.Associations).Save(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update invoice")
	}

	for i := range invoice.Items {
		item := &invoice.Items[i]
		if item.ProductID == nil {
			continue
		}
		if _, err := models.RecordSale(db, products[*item.ProductID], item, &invoice, actor); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record stock movement")
		}
	}

	if delta := invoice.GrandTotal - oldGrand; delta != 0 {
		err = db.Model(&models.Customer{}).Where("id = ?", invoice.CustomerID).Updates(map[string]any{
			"total_purchases":     gorm.Expr("total_purchases + ?", delta),
			"outstanding_balance": gorm.Expr("outstanding_balance + ?", delta),
		}).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer totals")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Invoice updated successfully",
		"data":    invoice,
	})
}

func DeleteInvoice(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, "Only admin can delete invoices")
	}

	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoice models.Invoice
	if err := db.Preload("Items").First(&invoice, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}
	if invoice.Status != models.StatusDraft {
		return fiber.NewError(fiber.StatusBadRequest, "Only draft invoices can be deleted")
	}

	if err := models.ReverseInvoice(db, &invoice); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not reverse stock")
	}

	// Outstanding shrinks by the remaining balance: payments already recorded
	// against this draft have reduced it on their own.
	err = db.Model(&models.Customer{}).Where("id = ?", invoice.CustomerID).Updates(map[string]any{
		"total_invoices":      gorm.Expr("total_invoices - 1"),
		"total_purchases":     gorm.Expr("total_purchases - ?", invoice.GrandTotal),
		"outstanding_balance": gorm.Expr("outstanding_balance - ?", invoice.BalanceAmount),
	}).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer totals")
	}

	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not delete invoice")
	}
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&models.PaymentEntry{}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not delete invoice")
	}
	if err := db.Delete(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not delete invoice")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Invoice deleted successfully",
	})
}

func UpdateInvoiceStatus(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if !models.ValidStatus(input.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown status")
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoice models.Invoice
	if err := db.First(&invoice, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}

	if input.Status != invoice.Status {
		if !models.CanTransition(invoice.Status, input.Status) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Cannot change status from %s to %s", invoice.Status, input.Status))
		}
		invoice.Status = input.Status
		if input.Status == models.StatusSent {
			now := time.Now()
			invoice.EmailSentDate = &now
			invoice.IsEmailSent = true
		}
	}

	actor, _ := c.Locals("userID").(string)
	invoice.UpdatedByID = actor

	if err := db.Omit(clause.Associations).Save(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update invoice status")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Invoice status updated successfully",
		"data":    invoice,
	})
}

func AddPayment(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	var input struct {
		Amount      float64 `json:"amount"`
		PaymentMode string  `json:"paymentMode"`
		Reference   string  `json:"reference"`
		Notes       string  `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoice models.Invoice
	if err := db.First(&invoice, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}

	if invoice.PaymentStatus == models.PaymentPaid {
		return fiber.NewError(fiber.StatusBadRequest, "Invoice is already fully paid")
	}
	if input.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Payment amount must be greater than zero")
	}
	if input.Amount > invoice.BalanceAmount {
		return fiber.NewError(fiber.StatusBadRequest, "Payment amount cannot exceed balance amount")
	}

	actor, _ := c.Locals("userID").(string)

	entry := models.PaymentEntry{
		InvoiceID:    invoice.ID,
		Amount:       utils.Round2(input.Amount),
		PaymentMode:  input.PaymentMode,
		Reference:    input.Reference,
		Notes:        input.Notes,
		ReceivedByID: actor,
		PaidAt:       time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not record payment")
	}

	invoice.PaidAmount = utils.Round2(invoice.PaidAmount + entry.Amount)
	if invoice.PaidAmount >= invoice.GrandTotal {
		invoice.Status = models.StatusPaid
	}
	invoice.UpdatedByID = actor

	// BeforeSave recomputes balanceAmount and paymentStatus.
	if err := db.Omit(clause.Associations).Save(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not record payment")
	}

	err = db.Model(&models.Customer{}).Where("id = ?", invoice.CustomerID).
		Update("outstanding_balance", gorm.Expr("outstanding_balance - ?", entry.Amount)).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer totals")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment added successfully",
		"data":    invoice,
	})
}

func GetInvoice(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoice models.Invoice
	err = db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") }).
		Preload("Customer").
		First(&invoice, id).Error
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

func GetInvoices(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	page := utils.ParseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntDefault(c.Query("limit"), 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	scope := db.Model(&models.Invoice{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		sub := db.Session(&gorm.Session{NewDB: true}).Model(&models.Customer{}).
			Select("id").
			Where("customer_name ILIKE ? OR company_name ILIKE ?", like, like)
		scope = scope.Where("invoice_number ILIKE ? OR customer_id IN (?)", like, sub)
	}
	if customer := c.Query("customer"); customer != "" {
		scope = scope.Where("customer_id = ?", customer)
	}
	if status := c.Query("status"); status != "" {
		scope = scope.Where("status = ?", status)
	}
	if ps := c.Query("paymentStatus"); ps != "" {
		scope = scope.Where("payment_status = ?", ps)
	}
	if it := c.Query("invoiceType"); it != "" {
		scope = scope.Where("invoice_type = ?", it)
	}
	if d := parseDate(c.Query("startDate")); d != nil {
		scope = scope.Where("invoice_date >= ?", *d)
	}
	if d := parseDate(c.Query("endDate")); d != nil {
		scope = scope.Where("invoice_date <= ?", *d)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list invoices")
	}

	var invoices []models.Invoice
	err = scope.
		Preload("Customer").
		Order("invoice_date DESC, invoice_number DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list invoices")
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    invoices,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"pages": pages,
		},
	})
}

func GetInvoiceStats(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	start := parseDate(c.Query("startDate"))
	end := parseDate(c.Query("endDate"))

	scope := func() *gorm.DB {
		s := db.Session(&gorm.Session{NewDB: true}).Model(&models.Invoice{})
		if start != nil {
			s = s.Where("invoice_date >= ?", *start)
		}
		if end != nil {
			s = s.Where("invoice_date <= ?", *end)
		}
		return s
	}

	var totalInvoices, paidInvoices, unpaidInvoices, overdueInvoices int64
	if err := scope().Count(&totalInvoices).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stats")
	}
	if err := scope().Where("payment_status = ?", models.PaymentPaid).Count(&paidInvoices).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stats")
	}
	if err := scope().Where("payment_status = ?", models.PaymentUnpaid).Count(&unpaidInvoices).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stats")
	}
	if err := scope().Where("payment_status = ?", models.PaymentOverdue).Count(&overdueInvoices).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stats")
	}

	var sums struct {
		TotalRevenue     float64 `json:"totalRevenue"`
		TotalReceived    float64 `json:"totalReceived"`
		TotalOutstanding float64 `json:"totalOutstanding"`
	}
	err = scope().
		Select("COALESCE(SUM(grand_total),0) AS total_revenue, COALESCE(SUM(paid_amount),0) AS total_received, COALESCE(SUM(balance_amount),0) AS total_outstanding").
		Scan(&sums).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stats")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"totalInvoices":    totalInvoices,
			"paidInvoices":     paidInvoices,
			"unpaidInvoices":   unpaidInvoices,
			"overdueInvoices":  overdueInvoices,
			"totalRevenue":     sums.TotalRevenue,
			"totalReceived":    sums.TotalReceived,
			"totalOutstanding": sums.TotalOutstanding,
		},
	})
}

func GenerateInvoicePDF(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invoice models.Invoice
	err = db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&invoice, id).Error
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}

	var profile models.CompanyProfile
	if err := db.Where("is_active = ?", true).First(&profile).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Company profile not configured. Please setup company profile first.")
	}

	document, err := pdf.Render(&invoice, &profile)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not generate PDF")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	dir := filepath.Join(uploadDir, "invoices")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not store PDF")
	}

	safeName := strings.ReplaceAll(invoice.InvoiceNumber, "/", "_") + ".pdf"
	pdfPath := filepath.Join(dir, safeName)
	if err := os.WriteFile(pdfPath, document, 0o644); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not store PDF")
	}

	// Every render counts as a print; this is an audit trail, not idempotent.
	now := time.Now()
	invoice.PDFPath = pdfPath
	invoice.IsPrinted = true
	invoice.PrintedDate = &now
	invoice.PrintCount++
	if err := db.Omit(clause.Associations).Save(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update invoice")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+safeName+`"`)
	return c.Send(document)
}
