package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines inventory business logic for items and stores.
type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	GetItem(ctx context.Context, sku string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	DeleteItem(ctx context.Context, sku string) error

	// ImportCSV ingests one item per row, collecting per-row validation
	// errors; valid rows are stored even when some rows are rejected.
	ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error)

	CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	UpdateStoreCapacity(ctx context.Context, code string, available int) error
}

// ImportResult reports an ingestion run.
type ImportResult struct {
	Imported int                `json:"imported"`
	Rejected int                `json:"rejected"`
	Errors   []*ValidationError `json:"errors,omitempty"`
}

type service struct {
	itemRepo  ItemRepository
	storeRepo StoreRepository
}

// NewService creates a new inventory service.
func NewService(itemRepo ItemRepository, storeRepo StoreRepository) Service {
	return &service{itemRepo: itemRepo, storeRepo: storeRepo}
}

// ParseCategory accepts both the canonical enum form and the human labels
// that appear in uploaded spreadsheets.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, " ", "_"))) {
	case "FRESH_FOOD":
		return CategoryFreshFood, true
	case "PERISHABLE", "PERISHABLES":
		return CategoryPerishable, true
	case "GENERAL_MERCHANDISE", "GENERAL_GOODS":
		return CategoryGeneralMerchandise, true
	}
	return "", false
}

// ParseZone accepts the canonical zone names case-insensitively.
func ParseZone(s string) (StoreZone, bool) {
	zone := StoreZone(strings.ToUpper(strings.TrimSpace(s)))
	if zone.Valid() {
		return zone, true
	}
	return "", false
}

// ItemFromRequest builds an Item from a request payload, reporting the first
// malformed field. The full boundary validation runs in ValidateItem.
func ItemFromRequest(req CreateItemRequest) (*Item, *ValidationError) {
	category, ok := ParseCategory(req.Category)
	if !ok {
		return nil, &ValidationError{SKU: req.SKU, Field: "Category", Message: fmt.Sprintf("unknown category %q", req.Category)}
	}
	costBasis, err := decimal.NewFromString(strings.TrimSpace(req.CostBasis))
	if err != nil {
		return nil, &ValidationError{SKU: req.SKU, Field: "CostBasis", Message: "not a valid amount"}
	}
	sellingPrice, err := decimal.NewFromString(strings.TrimSpace(req.SellingPrice))
	if err != nil {
		return nil, &ValidationError{SKU: req.SKU, Field: "SellingPrice", Message: "not a valid amount"}
	}
	item := &Item{
		ID:              uuid.New(),
		SKU:             strings.TrimSpace(req.SKU),
		Name:            strings.TrimSpace(req.Name),
		Category:        category,
		StoreCode:       strings.TrimSpace(req.StoreCode),
		Quantity:        req.Quantity,
		CostBasis:       costBasis,
		SellingPrice:    sellingPrice,
		DaysRemaining:   req.DaysRemaining,
		TotalShelfLife:  req.TotalShelfLife,
		SaleThroughRate: req.SaleThroughRate,
	}
	if verr := ValidateItem(item); verr != nil {
		return nil, verr
	}
	return item, nil
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	item, verr := ItemFromRequest(req)
	if verr != nil {
		return nil, verr
	}
	if err := s.itemRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, sku string) (*Item, error) {
	return s.itemRepo.GetItemBySKU(ctx, sku)
}

func (s *service) ListItems(ctx context.Context) ([]*Item, error) {
	return s.itemRepo.ListItems(ctx)
}

func (s *service) DeleteItem(ctx context.Context, sku string) error {
	return s.itemRepo.DeleteItem(ctx, sku)
}

func (s *service) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	items, errs, err := ReadItemsCSV(r)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := s.itemRepo.ImportItems(ctx, items); err != nil {
			return nil, fmt.Errorf("failed to store imported items: %w", err)
		}
	}
	return &ImportResult{Imported: len(items), Rejected: len(errs), Errors: errs}, nil
}

func (s *service) CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error) {
	zone, ok := ParseZone(req.Zone)
	if !ok {
		return nil, fmt.Errorf("invalid zone %q", req.Zone)
	}
	if req.Code == "" {
		return nil, fmt.Errorf("store code is required")
	}
	store := &Store{
		ID:                uuid.New(),
		Code:              strings.TrimSpace(req.Code),
		Name:              strings.TrimSpace(req.Name),
		Zone:              zone,
		Capacity:          req.Capacity,
		AvailableCapacity: req.AvailableCapacity,
		IsActive:          true,
	}
	if err := s.storeRepo.CreateStore(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	return s.storeRepo.ListStores(ctx)
}

func (s *service) UpdateStoreCapacity(ctx context.Context, code string, available int) error {
	if available < 0 {
		return fmt.Errorf("available capacity must not be negative")
	}
	return s.storeRepo.UpdateAvailableCapacity(ctx, code, available)
}
