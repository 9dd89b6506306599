package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func warehouseClause(query string, args []interface{}, warehouseID *string) (string, []interface{}) {
	if warehouseID != nil && *warehouseID != "" {
		args = append(args, *warehouseID)
		return query + fmt.Sprintf(" AND warehouse_id = $%d", len(args)), args
	}
	return query + " AND warehouse_id IS NULL", args
}

func (r *PGRepository) GetByVariant(ctx context.Context, vendorID, variantID string, warehouseID *string) (*model.Inventory, error) {
	var inv model.Inventory
	query, args := warehouseClause(`SELECT * FROM inventory WHERE vendor_id = $1 AND variant_id = $2`,
		[]interface{}{vendorID, variantID}, warehouseID)

	err := r.DB.GetContext(ctx, &inv, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Caller creates the record on first adjustment
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) ListByProduct(ctx context.Context, vendorID, productID string, warehouseID *string) ([]model.Inventory, error) {
	query, args := warehouseClause(`SELECT * FROM inventory WHERE vendor_id = $1 AND product_id = $2`,
		[]interface{}{vendorID, productID}, warehouseID)

	items := []model.Inventory{}
	err := r.DB.SelectContext(ctx, &items, query+" ORDER BY sku", args...)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var items []model.Inventory
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.VendorID != "" {
		conditions = append(conditions, "vendor_id = :vendor_id")
		args["vendor_id"] = f.VendorID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.WarehouseID != nil {
		if *f.WarehouseID == "" {
			conditions = append(conditions, "warehouse_id IS NULL")
		} else {
			conditions = append(conditions, "warehouse_id = :warehouse_id")
			args["warehouse_id"] = *f.WarehouseID
		}
	}
	if f.LowStock {
		conditions = append(conditions, "available_quantity <= reorder_point AND reorder_point > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	if err := r.count(ctx, "SELECT count(*) FROM inventory"+whereClause, args, &count); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory" + whereClause + " ORDER BY available_quantity ASC, updated_at DESC"
	query += paginate(f.Page, f.PageSize)

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.VendorID != "" {
		conditions = append(conditions, "vendor_id = :vendor_id")
		args["vendor_id"] = f.VendorID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.VariantID != "" {
		conditions = append(conditions, "variant_id = :variant_id")
		args["variant_id"] = f.VariantID
	}
	if f.WarehouseID != nil && *f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = *f.WarehouseID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	if err := r.count(ctx, "SELECT count(*) FROM inventory_movements"+whereClause, args, &count); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC"
	query += paginate(f.Page, f.PageSize)

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) count(ctx context.Context, query string, args map[string]interface{}, dest *int) error {
	rows, err := r.DB.NamedQueryContext(ctx, query, args)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(dest)
	}
	return rows.Err()
}

func paginate(page, pageSize int) string {
	if pageSize <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}

// AdjustStockWithMovement relies on the unique index
// (vendor_id, warehouse_id, variant_id) NULLS NOT DISTINCT.
func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, inv *model.Inventory, movement *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsertQuery := `
        INSERT INTO inventory (
            id, vendor_id, warehouse_id, product_id, variant_id, sku,
            quantity, reserved_quantity, reorder_point, last_counted_at, updated_at
        )
        VALUES (
            :id, :vendor_id, :warehouse_id, :product_id, :variant_id, :sku,
            :quantity, :reserved_quantity, :reorder_point, :last_counted_at, :updated_at
        )
        ON CONFLICT (vendor_id, warehouse_id, variant_id)
        DO UPDATE SET
            quantity = EXCLUDED.quantity,
            reserved_quantity = EXCLUDED.reserved_quantity,
            last_counted_at = EXCLUDED.last_counted_at,
            updated_at = EXCLUDED.updated_at
    `
	// available_quantity is a generated column
	if _, err := tx.NamedExecContext(ctx, upsertQuery, inv); err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}

	insertLogQuery := `
        INSERT INTO inventory_movements (
            id, vendor_id, warehouse_id, product_id, variant_id,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :vendor_id, :warehouse_id, :product_id, :variant_id,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertLogQuery, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}

// DeleteByProduct drops the stock records of a deleted product. Movements
// are kept as an audit trail.
func (r *PGRepository) DeleteByProduct(ctx context.Context, vendorID, productID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM inventory WHERE vendor_id = $1 AND product_id = $2", vendorID, productID)
	return err
}
