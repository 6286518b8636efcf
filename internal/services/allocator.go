package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// suffixPattern matches the numeric tail of a family barcode. Three digits
// is the normal width; longer suffixes appear once a family passes 999.
var suffixPattern = regexp.MustCompile(`^([0-9]{3,})$`)

// BarcodeSource provides read access to the barcodes already persisted for
// a family. ProductRepository satisfies it.
type BarcodeSource interface {
	BarcodesWithPrefix(prefix string) ([]string, error)
}

// BarcodeAllocator derives a new human-readable barcode for a product that
// was created without one. Allocation is a convention over existing values,
// not a reservation: the product INSERT is the serialization point, and the
// caller retries on a duplicate-key failure.
type BarcodeAllocator struct {
	source BarcodeSource
}

func NewBarcodeAllocator(source BarcodeSource) *BarcodeAllocator {
	return &BarcodeAllocator{source: source}
}

// Allocate computes the next barcode for the family derived from name.
func (a *BarcodeAllocator) Allocate(name string) (string, error) {
	base := NormalizeBaseName(name)
	existing, err := a.source.BarcodesWithPrefix(base + "-")
	if err != nil {
		return "", fmt.Errorf("failed to read barcode family %q: %w", base, err)
	}
	return NextBarcode(base, existing), nil
}

// NormalizeBaseName strips all whitespace from a product name and uppercases
// the rest. Names that normalize alike share a barcode family.
func NormalizeBaseName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	return strings.ToUpper(stripped)
}

// NextBarcode returns "{base}-{suffix}" where suffix is one past the highest
// numeric suffix found among existing family members, zero-padded to three
// digits. Gaps are ignored: REDMUG-001 plus REDMUG-003 yields REDMUG-004.
// Past 999 the suffix simply widens (…-999 then …-1000).
func NextBarcode(base string, existing []string) string {
	prefix := base + "-"
	max := 0
	for _, barcode := range existing {
		if !strings.HasPrefix(barcode, prefix) {
			continue
		}
		m := suffixPattern.FindStringSubmatch(barcode[len(prefix):])
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%03d", base, max+1)
}
