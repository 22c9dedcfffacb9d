package inventory

import "context"

// ItemRepository defines data access for inventory line items.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItemBySKU(ctx context.Context, sku string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	DeleteItem(ctx context.Context, sku string) error

	// ImportItems inserts a batch atomically; either every row lands or none.
	ImportItems(ctx context.Context, items []*Item) error
}

// StoreRepository defines data access for store records.
type StoreRepository interface {
	CreateStore(ctx context.Context, store *Store) error
	GetStoreByCode(ctx context.Context, code string) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)

	// UpdateAvailableCapacity records the capacity fact reported by the
	// receiving store's systems.
	UpdateAvailableCapacity(ctx context.Context, code string, available int) error
}
