package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvHeader is the expected column order for item uploads.
var csvHeader = []string{
	"sku", "name", "category", "store_code", "quantity",
	"cost_basis", "selling_price", "days_remaining", "total_shelf_life", "sale_through_rate",
}

// ReadItemsCSV parses an item upload. Malformed rows are reported per row and
// skipped; a malformed header or unreadable stream fails the whole read.
func ReadItemsCSV(r io.Reader) ([]*Item, []*ValidationError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, nil, err
	}

	var items []*Item
	var errs []*ValidationError
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		item, verr := itemFromRecord(record)
		if verr != nil {
			errs = append(errs, verr)
			continue
		}
		items = append(items, item)
	}
	return items, errs, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("expected %d CSV columns, got %d", len(csvHeader), len(header))
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("unexpected CSV column %d: want %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func itemFromRecord(record []string) (*Item, *ValidationError) {
	if len(record) != len(csvHeader) {
		return nil, &ValidationError{Field: "row", Message: fmt.Sprintf("expected %d fields, got %d", len(csvHeader), len(record))}
	}
	sku := strings.TrimSpace(record[0])

	quantity, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, &ValidationError{SKU: sku, Field: "Quantity", Message: "not a whole number"}
	}
	daysRemaining, err := strconv.ParseFloat(strings.TrimSpace(record[7]), 64)
	if err != nil {
		return nil, &ValidationError{SKU: sku, Field: "DaysRemaining", Message: "not a number"}
	}
	shelfLife, err := strconv.ParseFloat(strings.TrimSpace(record[8]), 64)
	if err != nil {
		return nil, &ValidationError{SKU: sku, Field: "TotalShelfLife", Message: "not a number"}
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(record[9]), 64)
	if err != nil {
		return nil, &ValidationError{SKU: sku, Field: "SaleThroughRate", Message: "not a number"}
	}

	return ItemFromRequest(CreateItemRequest{
		SKU:             sku,
		Name:            record[1],
		Category:        record[2],
		StoreCode:       record[3],
		Quantity:        quantity,
		CostBasis:       record[5],
		SellingPrice:    record[6],
		DaysRemaining:   daysRemaining,
		TotalShelfLife:  shelfLife,
		SaleThroughRate: rate,
	})
}
