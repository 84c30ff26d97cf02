package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// BuildManifest renders the dispatch manifest PDF for an allotment. The bytes
// are uploaded before any dispatch record is written.
func BuildManifest(allotmentNo string, items []models.Item, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Dispatch Manifest %s", allotmentNo), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Dispatch Manifest")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Allotment: %s", allotmentNo))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Items: %d", len(items)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 7, "Code", "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 7, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Quantity", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.CellFormat(50, 7, item.Code, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", item.Quantity), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}

	return buf.Bytes(), nil
}
