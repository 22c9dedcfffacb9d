package inventory

import (
	"context"
	"database/sql"
	"time"
)

type itemPostgresRepo struct{ db *sql.DB }

// NewItemPostgresRepository creates the Postgres-backed item repository.
func NewItemPostgresRepository(db *sql.DB) ItemRepository { return &itemPostgresRepo{db: db} }

const itemColumns = `id,sku,name,category,store_code,quantity,cost_basis,selling_price,
	days_remaining,total_shelf_life,sale_through_rate,created_at,updated_at`

func (r *itemPostgresRepo) CreateItem(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (id,sku,name,category,store_code,quantity,cost_basis,selling_price,
			days_remaining,total_shelf_life,sale_through_rate)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		item.ID, item.SKU, item.Name, item.Category, item.StoreCode, item.Quantity,
		item.CostBasis, item.SellingPrice, item.DaysRemaining, item.TotalShelfLife, item.SaleThroughRate)
	return err
}

func (r *itemPostgresRepo) GetItemBySKU(ctx context.Context, sku string) (*Item, error) {
	return r.scanItem(r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM inventory_items WHERE sku=$1`, sku))
}

func (r *itemPostgresRepo) ListItems(ctx context.Context) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM inventory_items ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemPostgresRepo) DeleteItem(ctx context.Context, sku string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE sku=$1`, sku)
	return err
}

func (r *itemPostgresRepo) ImportItems(ctx context.Context, items []*Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_items (id,sku,name,category,store_code,quantity,cost_basis,selling_price,
				days_remaining,total_shelf_life,sale_through_rate)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (sku) DO UPDATE SET
				quantity=EXCLUDED.quantity, cost_basis=EXCLUDED.cost_basis,
				selling_price=EXCLUDED.selling_price, days_remaining=EXCLUDED.days_remaining,
				total_shelf_life=EXCLUDED.total_shelf_life, sale_through_rate=EXCLUDED.sale_through_rate,
				updated_at=NOW()`,
			item.ID, item.SKU, item.Name, item.Category, item.StoreCode, item.Quantity,
			item.CostBasis, item.SellingPrice, item.DaysRemaining, item.TotalShelfLife, item.SaleThroughRate); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *itemPostgresRepo) scanItem(row rowScanner) (*Item, error) {
	var item Item
	if err := row.Scan(&item.ID, &item.SKU, &item.Name, &item.Category, &item.StoreCode,
		&item.Quantity, &item.CostBasis, &item.SellingPrice, &item.DaysRemaining,
		&item.TotalShelfLife, &item.SaleThroughRate, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

type storePostgresRepo struct{ db *sql.DB }

// NewStorePostgresRepository creates the Postgres-backed store repository.
func NewStorePostgresRepository(db *sql.DB) StoreRepository { return &storePostgresRepo{db: db} }

func (r *storePostgresRepo) CreateStore(ctx context.Context, store *Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (id,code,name,zone,capacity,available_capacity,is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		store.ID, store.Code, store.Name, store.Zone, store.Capacity,
		store.AvailableCapacity, store.IsActive)
	return err
}

func (r *storePostgresRepo) GetStoreByCode(ctx context.Context, code string) (*Store, error) {
	return r.scanStore(r.db.QueryRowContext(ctx, `
		SELECT id,code,name,zone,capacity,available_capacity,is_active,created_at,updated_at
		FROM stores WHERE code=$1`, code))
}

func (r *storePostgresRepo) ListStores(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,code,name,zone,capacity,available_capacity,is_active,created_at,updated_at
		FROM stores ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stores []*Store
	for rows.Next() {
		store, err := r.scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func (r *storePostgresRepo) UpdateAvailableCapacity(ctx context.Context, code string, available int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stores SET available_capacity=$1, updated_at=$2 WHERE code=$3`,
		available, time.Now(), code)
	return err
}

func (r *storePostgresRepo) scanStore(row rowScanner) (*Store, error) {
	var store Store
	if err := row.Scan(&store.ID, &store.Code, &store.Name, &store.Zone, &store.Capacity,
		&store.AvailableCapacity, &store.IsActive, &store.CreatedAt, &store.UpdatedAt); err != nil {
		return nil, err
	}
	return &store, nil
}
