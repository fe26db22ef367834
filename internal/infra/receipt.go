package infra

// receipt.go — PDF receipt generation using go-pdf/fpdf.
// Generates A7-size thermal receipt-style tickets with:
//   - Business name header
//   - Sale id and timestamp
//   - Item table (product name snapshot, quantity, ARS subtotal)
//   - ARS and USD totals with the frozen exchange rate
//   - Channel and optional customer name
//
// The output file is saved to storagePath/receipt_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
)

// GenerateReceiptPDF renders a PDF receipt for a settled Sale. Item names come
// from the sale's own snapshots, so receipts for deleted or renamed products
// still print correctly. Returns the absolute path to the generated file.
func GenerateReceiptPDF(sale *model.Sale, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", sale.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper (custom size, "A7" is not in fpdf's named list)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Gestor Perfumes", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de Venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venta %s", shortID(sale.ID.String())), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.Date.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Canal: "+string(sale.Channel), "", 1, "L", false, 0, "")
	if sale.CustomerName != nil && *sale.CustomerName != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+*sale.CustomerName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := item.ProductName
		// Truncate long names
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		subtotal := item.UnitPriceARS.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL ARS:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+sale.TotalARS.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Total USD:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "US$"+sale.TotalUSD.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 4, "Cotización:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+sale.ExchangeRateUsed.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
