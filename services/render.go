package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
)

const receiptWidth = 40

// RenderReceiptText formats a receipt for a fixed-width printer or a chat reply.
func RenderReceiptText(r *models.Receipt) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)

	fmt.Fprintf(&b, "Receipt #%d\n", r.TransactionID)
	fmt.Fprintf(&b, "%s %s\n", r.Date, r.Time)
	b.WriteString(rule + "\n")
	for _, item := range r.Items {
		label := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
		writeRow(&b, label, utils.FormatCurrency(item.LineTotal))
		fmt.Fprintf(&b, "   @ %s\n", utils.FormatCurrency(item.UnitPrice))
	}
	b.WriteString(rule + "\n")
	writeRow(&b, "Subtotal", utils.FormatCurrency(r.Subtotal))
	writeRow(&b, "Tax", utils.FormatCurrency(r.Tax))
	writeRow(&b, "Total", utils.FormatCurrency(r.Total))
	writeRow(&b, "Paid by", r.PaymentMethod)
	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	pad := receiptWidth - len(label) - len(value)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(label + strings.Repeat(" ", pad) + value + "\n")
}

// RenderReceiptPDF writes the receipt as a single-page PDF.
func RenderReceiptPDF(r *models.Receipt, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %d", r.TransactionID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Receipt #%d", r.TransactionID), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, r.Date+" "+r.Time, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range []struct {
		text  string
		width float64
		align string
	}{{"Item", 60, "L"}, {"Qty", 15, "R"}, {"Price", 25, "R"}, {"Total", 28, "R"}} {
		pdf.CellFormat(h.width, 7, h.text, "B", 0, h.align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range r.Items {
		pdf.CellFormat(60, 6, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, utils.FormatCurrency(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, utils.FormatCurrency(item.LineTotal), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	totals := [][2]string{
		{"Subtotal", utils.FormatCurrency(r.Subtotal)},
		{"Tax", utils.FormatCurrency(r.Tax)},
		{"Total", utils.FormatCurrency(r.Total)},
		{"Paid by", r.PaymentMethod},
	}
	for i, row := range totals {
		if i == 2 {
			pdf.SetFont("Helvetica", "B", 10)
		} else {
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.CellFormat(100, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, row[1], "", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}
