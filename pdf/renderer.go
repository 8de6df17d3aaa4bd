// Package pdf renders invoice documents with gofpdf. The layout is a single
// A4 portrait template driven by the company profile's invoice settings and
// branding colors.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"gstbilling-backend/models"
	"gstbilling-backend/utils"
)

const (
	pageMargin  = 50.0
	pageWidth   = 595.28 // A4 in points
	pageHeight  = 841.89
	contentEnd  = pageWidth - pageMargin
	breakAtY    = 700.0
	trailStartY = 650.0
	signStartY  = 680.0
)

// Status colors for the payment badge.
var statusColors = map[string]string{
	models.PaymentPaid:    "#10b981",
	models.PaymentOverdue: "#ef4444",
}

type renderer struct {
	pdf       *gofpdf.Fpdf
	inv       *models.Invoice
	profile   *models.CompanyProfile
	settings  models.InvoiceSettings
	primary   [3]int
	secondary [3]int
}

// Render produces the printable PDF for an invoice. The company profile
// supplies branding, bank details and the optional-block toggles.
func Render(inv *models.Invoice, profile *models.CompanyProfile) ([]byte, error) {
	if inv == nil || profile == nil {
		return nil, fmt.Errorf("pdf: invoice and company profile are required")
	}

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, pageMargin)
	doc.AddPage()

	r := &renderer{
		pdf:       doc,
		inv:       inv,
		profile:   profile,
		settings:  profile.InvoiceSettings.Data(),
		primary:   parseHexColor(profile.PrimaryColor()),
		secondary: parseHexColor(profile.SecondaryColor()),
	}

	r.header()
	r.typeBanner()
	r.detailBoxes()
	r.addressBoxes()
	r.itemsTable()
	r.totals()
	r.amountInWords()
	r.trailingBlocks()
	r.footer()

	if doc.Err() {
		return nil, fmt.Errorf("pdf: render failed: %w", doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output failed: %w", err)
	}
	return buf.Bytes(), nil
}

// parseHexColor turns "#rrggbb" into RGB components, black on bad input.
func parseHexColor(hex string) [3]int {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return [3]int{0, 0, 0}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]int{0, 0, 0}
	}
	return [3]int{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

func (r *renderer) setFill(c [3]int)  { r.pdf.SetFillColor(c[0], c[1], c[2]) }
func (r *renderer) setText(c [3]int)  { r.pdf.SetTextColor(c[0], c[1], c[2]) }
func (r *renderer) textBlack()        { r.pdf.SetTextColor(31, 41, 55) }
func (r *renderer) textMuted()        { r.pdf.SetTextColor(107, 114, 128) }
func (r *renderer) font(style string, size float64) {
	r.pdf.SetFont("Helvetica", style, size)
}

func (r *renderer) cellAt(x, y, w float64, txt, align string) {
	r.pdf.SetXY(x, y)
	r.pdf.CellFormat(w, 12, txt, "", 0, align, false, 0, "")
}

func money(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}

func fmtDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// header draws the company identity block at the top of the first page.
func (r *renderer) header() {
	y := pageMargin

	if r.settings.ShowLogo && r.profile.Logo != "" {
		if _, err := os.Stat(r.profile.Logo); err == nil {
			r.pdf.ImageOptions(r.profile.Logo, pageMargin, y, 120, 0,
				false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	r.setText(r.primary)
	r.font("B", 24)
	r.cellAt(200, y, contentEnd-200, r.profile.CompanyName, "L")
	y += 28

	if r.profile.Tagline != "" {
		r.textMuted()
		r.font("I", 10)
		r.cellAt(200, y, contentEnd-200, r.profile.Tagline, "L")
		y += 14
	}

	addr := r.profile.Address.Data()
	r.textMuted()
	r.font("", 9)
	for _, line := range []string{
		strings.TrimSpace(addr.AddressLine1),
		strings.TrimSpace(addr.AddressLine2),
		joinNonEmpty(", ", addr.City, addr.State, addr.Pincode),
		joinNonEmpty(" | ", prefixed("Phone: ", r.profile.Phone), prefixed("Email: ", r.profile.Email)),
	} {
		if line == "" {
			continue
		}
		r.cellAt(200, y, contentEnd-200, line, "L")
		y += 12
	}

	if r.settings.ShowGST && r.profile.GSTNumber != "" {
		r.textBlack()
		r.font("B", 9)
		r.cellAt(200, y, contentEnd-200, "GSTIN: "+r.profile.GSTNumber, "L")
		y += 12
	}

	// Accent rule under the header in the secondary brand color.
	r.pdf.SetDrawColor(r.secondary[0], r.secondary[1], r.secondary[2])
	r.pdf.SetLineWidth(2)
	r.pdf.Line(pageMargin, y+6, contentEnd, y+6)
	r.pdf.SetLineWidth(0.2)

	r.pdf.SetY(y + 14)
}

// typeBanner draws the filled band with the document type name.
func (r *renderer) typeBanner() {
	y := r.pdf.GetY()
	r.setFill(r.primary)
	r.pdf.Rect(pageMargin, y, contentEnd-pageMargin, 30, "F")
	r.setText([3]int{255, 255, 255})
	r.font("B", 18)
	r.pdf.SetXY(pageMargin, y+8)
	r.pdf.CellFormat(contentEnd-pageMargin, 14, strings.ToUpper(r.inv.InvoiceType), "", 0, "C", false, 0, "")
	r.pdf.SetY(y + 40)
}

// detailBoxes draws the two side-by-side boxes: document metadata on the
// left, payment summary on the right.
func (r *renderer) detailBoxes() {
	top := r.pdf.GetY()
	const boxW = 245.0
	const boxH = 74.0
	leftX := pageMargin
	rightX := contentEnd - boxW

	r.pdf.SetDrawColor(229, 231, 235)
	r.pdf.Rect(leftX, top, boxW, boxH, "D")
	r.pdf.Rect(rightX, top, boxW, boxH, "D")

	labelVal := func(x, y float64, label, val string) {
		r.textMuted()
		r.font("", 8)
		r.cellAt(x+10, y, 90, label, "L")
		r.textBlack()
		r.font("B", 9)
		r.cellAt(x+100, y, boxW-110, val, "L")
	}

	y := top + 8
	labelVal(leftX, y, "Invoice No:", r.inv.InvoiceNumber)
	y += 16
	labelVal(leftX, y, "Invoice Date:", fmtDate(r.inv.InvoiceDate))
	y += 16
	due := "-"
	if r.inv.DueDate != nil {
		due = fmtDate(*r.inv.DueDate)
	}
	labelVal(leftX, y, "Due Date:", due)
	y += 16
	labelVal(leftX, y, "Payment Terms:", r.inv.PaymentTerms)

	y = top + 8
	r.textMuted()
	r.font("", 8)
	r.cellAt(rightX+10, y, 90, "Payment Status:", "L")
	badge := statusColors[r.inv.PaymentStatus]
	if badge == "" {
		badge = "#f59e0b"
	}
	r.setText(parseHexColor(badge))
	r.font("B", 10)
	r.cellAt(rightX+100, y, boxW-110, r.inv.PaymentStatus, "L")
	y += 18
	labelVal(rightX, y, "Grand Total:", money(r.inv.GrandTotal))
	y += 16
	r.textMuted()
	r.font("", 8)
	r.cellAt(rightX+10, y, 90, "Balance Due:", "L")
	r.setText(parseHexColor("#ef4444"))
	r.font("B", 10)
	r.cellAt(rightX+100, y, boxW-110, money(r.inv.BalanceAmount), "L")

	r.pdf.SetY(top + boxH + 14)
}

// addressBoxes draws the Bill To / Ship To blocks from the snapshot taken at
// creation time.
func (r *renderer) addressBoxes() {
	snap := r.inv.Snapshot()
	top := r.pdf.GetY()
	const boxW = 245.0
	leftX := pageMargin
	rightX := contentEnd - boxW

	drawParty := func(x float64, title string, name, company, gst string, addr models.Address) float64 {
		y := top
		r.setText(r.primary)
		r.font("B", 10)
		r.cellAt(x, y, boxW, title, "L")
		y += 14

		r.textBlack()
		r.font("B", 10)
		r.cellAt(x, y, boxW, name, "L")
		y += 12

		r.font("", 9)
		for _, line := range []string{
			company,
			strings.TrimSpace(addr.AddressLine1),
			strings.TrimSpace(addr.AddressLine2),
			joinNonEmpty(", ", addr.City, addr.State, addr.Pincode),
		} {
			if line == "" {
				continue
			}
			r.cellAt(x, y, boxW, line, "L")
			y += 11
		}
		if gst != "" {
			r.font("B", 9)
			r.cellAt(x, y, boxW, "GSTIN: "+gst, "L")
			y += 11
		}
		return y
	}

	y1 := drawParty(leftX, "BILL TO", snap.CustomerName, snap.CompanyName, snap.GSTNumber, snap.BillingAddress)
	y2 := drawParty(rightX, "SHIP TO", snap.CustomerName, snap.CompanyName, "", snap.ShippingAddress)
	if y2 > y1 {
		y1 = y2
	}
	r.pdf.SetY(y1 + 14)
}

var itemCols = []struct {
	title string
	width float64
	align string
}{
	{"#", 25, "C"},
	{"Item", 165, "L"},
	{"HSN", 50, "C"},
	{"Qty", 45, "R"},
	{"Rate", 65, "R"},
	{"Disc", 45, "R"},
	{"Tax", 40, "R"},
	{"Amount", 60.28, "R"},
}

// itemsTable draws the line items, breaking to a fresh page when the cursor
// passes the break threshold.
func (r *renderer) itemsTable() {
	r.tableHeader()

	for i, item := range r.inv.Items {
		if r.pdf.GetY() > breakAtY {
			r.pdf.AddPage()
			r.pdf.SetY(pageMargin)
		}
		y := r.pdf.GetY()

		if i%2 == 1 {
			r.setFill(parseHexColor("#f9fafb"))
			r.pdf.Rect(pageMargin, y, contentEnd-pageMargin, 18, "F")
		}

		name := item.ItemName
		if item.HSNCode == "" && item.ItemCode != "" {
			name = item.ItemName + " (" + item.ItemCode + ")"
		}
		disc := "-"
		if item.Discount > 0 {
			if item.DiscountType == models.DiscountFixed {
				disc = fmt.Sprintf("%.2f", item.Discount)
			} else {
				disc = fmt.Sprintf("%g%%", item.Discount)
			}
		}

		r.textBlack()
		r.font("", 9)
		cells := []string{
			strconv.Itoa(item.Position),
			name,
			item.HSNCode,
			fmt.Sprintf("%g %s", item.Quantity, item.Unit),
			fmt.Sprintf("%.2f", item.Rate),
			disc,
			fmt.Sprintf("%g%%", item.TaxRate),
			fmt.Sprintf("%.2f", item.TotalAmount),
		}
		x := pageMargin
		for ci, col := range itemCols {
			r.pdf.SetXY(x, y+4)
			r.pdf.CellFormat(col.width, 10, cells[ci], "", 0, col.align, false, 0, "")
			x += col.width
		}
		r.pdf.SetY(y + 18)
	}

	r.pdf.SetDrawColor(229, 231, 235)
	r.pdf.Line(pageMargin, r.pdf.GetY(), contentEnd, r.pdf.GetY())
	r.pdf.SetY(r.pdf.GetY() + 10)
}

func (r *renderer) tableHeader() {
	y := r.pdf.GetY()
	r.setFill(r.primary)
	r.pdf.Rect(pageMargin, y, contentEnd-pageMargin, 22, "F")

	r.setText([3]int{255, 255, 255})
	r.font("B", 9)
	x := pageMargin
	for _, col := range itemCols {
		r.pdf.SetXY(x, y+6)
		r.pdf.CellFormat(col.width, 10, col.title, "", 0, col.align, false, 0, "")
		x += col.width
	}
	r.pdf.SetY(y + 22)
}

// totals draws the right-aligned summary column. Zero-valued optional rows
// are omitted.
func (r *renderer) totals() {
	if r.pdf.GetY() > breakAtY {
		r.pdf.AddPage()
		r.pdf.SetY(pageMargin)
	}
	labelX := contentEnd - 220
	y := r.pdf.GetY()

	row := func(label string, amount float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		r.textBlack()
		r.font(style, 9)
		r.cellAt(labelX, y, 120, label, "L")
		r.cellAt(labelX+120, y, 100, money(amount), "R")
		y += 14
	}

	row("Subtotal", r.inv.Subtotal, false)
	if r.inv.TotalDiscount > 0 {
		row("Discount", -r.inv.TotalDiscount, false)
	}
	if r.inv.TotalCGST > 0 || r.inv.TotalSGST > 0 {
		row("CGST", r.inv.TotalCGST, false)
		row("SGST", r.inv.TotalSGST, false)
	}
	if r.inv.TotalIGST > 0 {
		row("IGST", r.inv.TotalIGST, false)
	}
	if r.inv.ShippingCharges > 0 {
		row("Shipping Charges", r.inv.ShippingCharges, false)
	}
	if r.inv.OtherCharges > 0 {
		row("Other Charges", r.inv.OtherCharges, false)
	}
	if r.inv.RoundOff != 0 {
		row("Round Off", r.inv.RoundOff, false)
	}

	// Highlighted grand total row.
	r.setFill(r.primary)
	r.pdf.Rect(labelX-5, y-2, 230, 20, "F")
	r.setText([3]int{255, 255, 255})
	r.font("B", 11)
	r.cellAt(labelX, y+2, 120, "Grand Total", "L")
	r.cellAt(labelX+120, y+2, 100, money(r.inv.GrandTotal), "R")
	y += 26

	if r.inv.PaidAmount > 0 {
		r.setText(parseHexColor("#10b981"))
		r.font("B", 9)
		r.cellAt(labelX, y, 120, "Paid", "L")
		r.cellAt(labelX+120, y, 100, money(r.inv.PaidAmount), "R")
		y += 14
		r.setText(parseHexColor("#ef4444"))
		r.cellAt(labelX, y, 120, "Balance Due", "L")
		r.cellAt(labelX+120, y, 100, money(r.inv.BalanceAmount), "R")
		y += 14
	}

	r.pdf.SetY(y + 6)
}

func (r *renderer) amountInWords() {
	words := r.inv.AmountInWords
	if words == "" {
		words = utils.AmountInWords(r.inv.GrandTotal)
	}
	y := r.pdf.GetY()
	r.textMuted()
	r.font("", 8)
	r.cellAt(pageMargin, y, 110, "Amount in Words:", "L")
	r.textBlack()
	r.font("BI", 9)
	r.pdf.SetXY(pageMargin, y+12)
	r.pdf.MultiCell(contentEnd-pageMargin, 11, words, "", "L", false)
	r.pdf.SetY(r.pdf.GetY() + 10)
}

// trailingBlocks draws notes, terms, bank details and the signature. Each
// block starts on a fresh page when it would collide with the footer.
func (r *renderer) trailingBlocks() {
	block := func(breakY float64, title, body string) {
		if body == "" {
			return
		}
		if r.pdf.GetY() > breakY {
			r.pdf.AddPage()
			r.pdf.SetY(pageMargin)
		}
		y := r.pdf.GetY()
		r.setText(r.primary)
		r.font("B", 9)
		r.cellAt(pageMargin, y, 200, title, "L")
		r.textBlack()
		r.font("", 8)
		r.pdf.SetXY(pageMargin, y+12)
		r.pdf.MultiCell(contentEnd-pageMargin, 10, body, "", "L", false)
		r.pdf.SetY(r.pdf.GetY() + 8)
	}

	block(trailStartY, "Notes", r.inv.Notes)

	terms := r.inv.TermsAndConditions
	if terms == "" {
		terms = r.settings.DefaultTerms
	}
	block(trailStartY, "Terms & Conditions", terms)

	if r.settings.ShowBankDetails {
		bank := r.profile.BankDetails.Data()
		lines := []string{
			prefixed("Bank: ", bank.BankName),
			prefixed("A/c Name: ", bank.AccountHolderName),
			prefixed("A/c No: ", bank.AccountNumber),
			prefixed("IFSC: ", bank.IFSCCode),
			prefixed("Branch: ", bank.BranchName),
			prefixed("UPI: ", bank.UPIID),
		}
		block(trailStartY, "Bank Details", joinNonEmpty("\n", lines...))
	}

	if r.settings.ShowSignature {
		if r.pdf.GetY() > signStartY {
			r.pdf.AddPage()
			r.pdf.SetY(pageMargin)
		}
		y := r.pdf.GetY() + 30
		sigX := contentEnd - 180
		r.pdf.SetDrawColor(107, 114, 128)
		r.pdf.Line(sigX, y, contentEnd, y)
		r.textBlack()
		r.font("B", 9)
		r.cellAt(sigX, y+4, 180, "Authorized Signatory", "C")
		if r.settings.AuthorizedSignatory != "" {
			r.textMuted()
			r.font("", 8)
			r.cellAt(sigX, y+16, 180, r.settings.AuthorizedSignatory, "C")
		}
		r.pdf.SetY(y + 30)
	}
}

func (r *renderer) footer() {
	if !r.settings.ShowFooter {
		return
	}
	text := r.settings.FooterText
	if text == "" {
		text = "Thank you for your business!"
	}
	r.textMuted()
	r.font("I", 8)
	r.pdf.SetXY(pageMargin, pageHeight-pageMargin)
	r.pdf.CellFormat(contentEnd-pageMargin, 10, text, "", 0, "C", false, 0, "")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func prefixed(prefix, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return prefix + v
}
