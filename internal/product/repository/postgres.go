package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	productQuery := `
        INSERT INTO products (
            id, vendor_id, category_id, brand_id, sku, title, city,
            short_description, description, base_price, compare_at_price,
            highlights, attributes, images, school_id, warehouse_id, grades,
            is_active, created_at, updated_at
        )
        VALUES (
            :id, :vendor_id, :category_id, :brand_id, :sku, :title, :city,
            :short_description, :description, :base_price, :compare_at_price,
            :highlights, :attributes, :images, :school_id, :warehouse_id, :grades,
            :is_active, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, productQuery, p); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if len(p.Options) > 0 {
		optionQuery := `
            INSERT INTO product_options (id, product_id, name, option_values, position, is_required)
            VALUES (:id, :product_id, :name, :option_values, :position, :is_required)
        `
		if _, err := tx.NamedExecContext(ctx, optionQuery, p.Options); err != nil {
			return fmt.Errorf("failed to insert options: %w", err)
		}
	}

	if len(p.Variants) > 0 {
		variantQuery := `
            INSERT INTO product_variants (
                id, product_id, sku, price, compare_at_price, weight,
                option1, option2, option3, position, metadata, is_active,
                created_at, updated_at
            )
            VALUES (
                :id, :product_id, :sku, :price, :compare_at_price, :weight,
                :option1, :option2, :option3, :position, :metadata, :is_active,
                :created_at, :updated_at
            )
        `
		if _, err := tx.NamedExecContext(ctx, variantQuery, p.Variants); err != nil {
			return fmt.Errorf("failed to insert variants: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &product.Options,
		`SELECT * FROM product_options WHERE product_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	err = r.DB.SelectContext(ctx, &product.Variants,
		`SELECT * FROM product_variants WHERE product_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.VendorID != "" {
		conditions = append(conditions, "vendor_id = :vendor_id")
		args["vendor_id"] = f.VendorID
	}
	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.SchoolID != "" {
		conditions = append(conditions, "school_id = :school_id")
		args["school_id"] = f.SchoolID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, `(title ILIKE :search OR sku ILIKE :search
            OR EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = products.id AND v.sku ILIKE :search))`)
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// Whitelisted to keep user input out of the ORDER BY clause.
		switch f.SortBy {
		case "title":
			orderBy = "title"
		case "price":
			orderBy = "base_price"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) SetActive(ctx context.Context, vendorID, id string, active bool) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE products SET is_active = $1, updated_at = NOW() WHERE id = $2 AND vendor_id = $3`,
		active, id, vendorID)
	return err
}

// Delete removes the product; options and variants go with it through
// ON DELETE CASCADE.
func (r *PGRepository) Delete(ctx context.Context, vendorID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1 AND vendor_id = $2", id, vendorID)
	return err
}

// FindTakenSKUs checks every vendor's products and variants; SKUs are
// unique across the catalog.
func (r *PGRepository) FindTakenSKUs(ctx context.Context, skus []string) ([]string, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
        SELECT sku FROM products WHERE sku IN (?)
        UNION
        SELECT sku FROM product_variants WHERE sku IN (?)
    `, skus, skus)
	if err != nil {
		return nil, err
	}

	var taken []string
	err = r.DB.SelectContext(ctx, &taken, r.DB.Rebind(query), args...)
	return taken, err
}
