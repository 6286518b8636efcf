package services

import (
	"bytes"
	"fmt"
	"image/png"

	"go-inventory-webapp/internal/models"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// BarcodeService renders barcode strings as images and printable label
// sheets. It never produces or interprets the strings themselves; those
// come from the allocator.
type BarcodeService struct{}

func NewBarcodeService() *BarcodeService {
	return &BarcodeService{}
}

func (s *BarcodeService) GenerateQRCode(data string, size int) ([]byte, error) {
	pngBytes, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	return pngBytes, nil
}

func (s *BarcodeService) GenerateBarcode(data string) ([]byte, error) {
	// Create Code128 barcode
	bc, err := code128.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode barcode: %w", err)
	}

	// Scale the barcode to reasonable size
	scaledBC, err := barcode.Scale(bc, 300, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	var buf bytes.Buffer
	err = png.Encode(&buf, scaledBC)
	if err != nil {
		return nil, fmt.Errorf("failed to encode barcode as PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// GenerateLabelSheet renders a printable A4 PDF with one barcode label per
// product: name, Code128 image and the barcode text underneath.
func (s *BarcodeService) GenerateLabelSheet(products []models.Product) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)

	const (
		labelWidth  = 90.0
		labelHeight = 38.0
		marginX     = 10.0
		marginY     = 12.0
	)

	col := 0
	x, y := marginX, marginY

	for i, product := range products {
		pngBytes, err := s.GenerateBarcode(product.Barcode)
		if err != nil {
			return nil, fmt.Errorf("failed to render label for %q: %w", product.Barcode, err)
		}

		imgName := fmt.Sprintf("label-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(pngBytes))

		pdf.SetXY(x, y)
		pdf.CellFormat(labelWidth, 6, product.Name, "", 0, "C", false, 0, "")
		pdf.ImageOptions(imgName, x+10, y+7, labelWidth-20, 18, false, opts, 0, "")
		pdf.SetXY(x, y+26)
		pdf.CellFormat(labelWidth, 6, product.Barcode, "", 0, "C", false, 0, "")

		if col == 0 {
			col = 1
			x = marginX + labelWidth + 10
		} else {
			col = 0
			x = marginX
			y += labelHeight
			if y+labelHeight > 280 {
				pdf.AddPage()
				y = marginY
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write label sheet: %w", err)
	}
	return buf.Bytes(), nil
}
