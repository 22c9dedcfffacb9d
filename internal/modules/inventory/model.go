package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies an inventory item by shelf-life profile.
type Category string

const (
	CategoryFreshFood          Category = "FRESH_FOOD"
	CategoryPerishable         Category = "PERISHABLE"
	CategoryGeneralMerchandise Category = "GENERAL_MERCHANDISE"
)

// Categories lists every known category in a stable order.
func Categories() []Category {
	return []Category{CategoryFreshFood, CategoryPerishable, CategoryGeneralMerchandise}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFreshFood, CategoryPerishable, CategoryGeneralMerchandise:
		return true
	}
	return false
}

// StoreZone places a store on the urban/suburban/rural axis that drives
// compatibility, transport distance, and sell-through lookups.
type StoreZone string

const (
	ZoneUrban    StoreZone = "URBAN"
	ZoneSuburban StoreZone = "SUBURBAN"
	ZoneRural    StoreZone = "RURAL"
)

// Valid reports whether z is a known zone.
func (z StoreZone) Valid() bool {
	switch z {
	case ZoneUrban, ZoneSuburban, ZoneRural:
		return true
	}
	return false
}

// Store represents a retail location that can originate or receive stock.
// AvailableCapacity is a fact supplied by the receiving store's systems, not
// something this service derives.
type Store struct {
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Zone              StoreZone `json:"zone"`
	Capacity          int       `json:"capacity"`
	AvailableCapacity int       `json:"available_capacity"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Item is one inventory line item at a store. Monetary fields are per-unit
// amounts; quantities are whole units. DaysRemaining may be fractional
// (hours expressed as fractions of a day).
type Item struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku" validate:"required"`
	Name            string          `json:"name"`
	Category        Category        `json:"category" validate:"required"`
	StoreCode       string          `json:"store_code" validate:"required"`
	Quantity        int             `json:"quantity" validate:"gte=0"`
	CostBasis       decimal.Decimal `json:"cost_basis"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DaysRemaining   float64         `json:"days_remaining" validate:"gte=0"`
	TotalShelfLife  float64         `json:"total_shelf_life" validate:"gt=0"`
	SaleThroughRate float64         `json:"sale_through_rate" validate:"gte=0,lte=1"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AggregateCost is cost basis across the whole line (cost_basis x quantity).
func (i *Item) AggregateCost() decimal.Decimal {
	return i.CostBasis.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CreateItemRequest holds data for registering a single item.
type CreateItemRequest struct {
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	StoreCode       string  `json:"store_code"`
	Quantity        int     `json:"quantity"`
	CostBasis       string  `json:"cost_basis"`
	SellingPrice    string  `json:"selling_price"`
	DaysRemaining   float64 `json:"days_remaining"`
	TotalShelfLife  float64 `json:"total_shelf_life"`
	SaleThroughRate float64 `json:"sale_through_rate"`
}

// CreateStoreRequest holds data for registering a store.
type CreateStoreRequest struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	Zone              string `json:"zone"`
	Capacity          int    `json:"capacity"`
	AvailableCapacity int    `json:"available_capacity"`
}
