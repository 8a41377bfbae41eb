package invoices

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf/v2"

	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

// Business is printed in the invoice header. FontPath names a UTF-8 TrueType
// font covering Gujarati; without it the core Arial font is used and text
// outside cp1252 cannot be printed.
type Business struct {
	Name     string
	Phone    string
	Address  string
	FontPath string
}

const (
	coreFamily    = "Arial"
	unicodeFamily = "InvoiceUnicode"
)

// Document is a rendered invoice file.
type Document struct {
	Filename string
	Content  []byte
}

// RenderPDF draws a printable A4 invoice with lines, totals and payments.
func (s *service) RenderPDF(ctx context.Context, id uuid.UUID) (*Document, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := renderInvoice(s.business, *invoice, payments)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice pdf")
	}
	return &Document{
		Filename: invoice.InvoiceNumber + ".pdf",
		Content:  content,
	}, nil
}

func renderInvoice(biz Business, inv InvoiceDTO, payments []PaymentDTO) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	family, tr := invoiceFont(pdf, biz.FontPath)
	if err := pdf.Error(); err != nil {
		return nil, err
	}
	pdf.AddPage()

	name := biz.Name
	if name == "" {
		name = "Rasoi Vasan"
	}
	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(190, 10, tr(name), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 10)
	if biz.Address != "" {
		pdf.CellFormat(190, 5, tr(biz.Address), "", 1, "C", false, 0, "")
	}
	if biz.Phone != "" {
		pdf.CellFormat(190, 5, "Phone: "+tr(biz.Phone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(190, 8, "Invoice "+inv.InvoiceNumber, "1", 1, "L", true, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(95, 7, "Issued: "+displayDate(inv.IssuedDate), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Due: "+displayDate(inv.DueDate), "RB", 1, "L", false, 0, "")

	if order := inv.Order; order != nil {
		pdf.CellFormat(95, 7, "Order: "+order.OrderNumber, "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, "Customer: "+tr(order.CustomerName), "RB", 1, "L", false, 0, "")
		pdf.CellFormat(95, 7, "Phone: "+tr(order.Phone), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("Event: %s to %s", displayDate(order.EventDate), displayDate(order.ReturnDate)), "RB", 1, "L", false, 0, "")
		pdf.MultiCell(190, 7, "Address: "+tr(order.Address), "LRB", "L", false)
		pdf.Ln(4)

		pdf.SetFont(family, "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(90, 7, "Item", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Rate", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Amount", "1", 1, "C", true, 0, "")

		pdf.SetFont(family, "", 10)
		for i, line := range order.Items {
			pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
			pdf.CellFormat(90, 6, tr(line.ItemName), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, "Rs. "+line.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, "Rs. "+line.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(4)

	pdf.SetFont(family, "", 11)
	pdf.CellFormat(63, 8, "Total: Rs. "+inv.TotalAmount.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, "Paid: Rs. "+inv.PaidAmount.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, "Balance: Rs. "+inv.Balance.StringFixed(2), "1", 1, "C", false, 0, "")

	if inv.Balance.IsPositive() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(190, 10, "Status: "+string(inv.Status), "1", 1, "C", true, 0, "")

	if len(payments) > 0 {
		pdf.Ln(5)
		pdf.SetFont(family, "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont(family, "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(40, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Type", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Method", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Note", "1", 1, "C", true, 0, "")

		pdf.SetFont(family, "", 10)
		for _, p := range payments {
			method, note := "-", ""
			if p.Method != nil {
				method = enums.PaymentMethod(*p.Method).Label()
			}
			if p.Note != nil {
				note = *p.Note
			}
			pdf.CellFormat(40, 6, p.CreatedAt.In(timeutil.IST).Format(timeutil.DisplayLayout), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, string(p.Type), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, tr(method), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, "Rs. "+p.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, tr(note), "1", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// invoiceFont registers the configured TrueType font for regular and bold
// text. UTF-8 fonts take strings as-is; the core font needs cp1252.
func invoiceFont(pdf *gofpdf.Fpdf, path string) (string, func(string) string) {
	if path == "" {
		return coreFamily, pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font(unicodeFamily, "", path)
	pdf.AddUTF8Font(unicodeFamily, "B", path)
	return unicodeFamily, func(s string) string { return s }
}

func displayDate(value string) string {
	d, err := timeutil.ParseDate(value, timeutil.IST)
	if err != nil {
		return value
	}
	return d.Format(timeutil.DisplayLayout)
}
