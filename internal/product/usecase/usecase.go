package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

const (
	indexName    = "products"
	listCacheTTL = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"vendor_id": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"school_id": { "type": "keyword" },
			"title": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"variant_skus": { "type": "keyword" },
			"base_price": { "type": "double" },
			"created_at": { "type": "date" }
		}
	}
}`

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

type productUseCase struct {
	repo      product.Repository
	cache     Cache
	es        SearchIndex
	publisher EventPublisher
	topic     string
	logger    logger.ZapLogger

	// async runs background side effects; tests replace it to run inline.
	async func(func())
}

// NewProductUseCase wires the product usecase. es and publisher may be nil
// when search or the broker are not configured.
func NewProductUseCase(repo product.Repository, cache Cache, es SearchIndex, publisher EventPublisher, topic string, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:      repo,
		cache:     cache,
		es:        es,
		publisher: publisher,
		topic:     topic,
		logger:    log,
		async:     func(f func()) { go f() },
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	skus, err := collectSKUs(input)
	if err != nil {
		return nil, err
	}
	taken, err := uc.repo.FindTakenSKUs(ctx, skus)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, &product.SKUError{SKU: taken[0]}
	}

	p, err := buildProduct(input, time.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.async(func() {
		ctx := context.Background()
		uc.invalidateProductCache(ctx, p.VendorID)
		uc.syncToElastic(ctx, p)
		uc.publishCreated(ctx, p, input)
	})

	return p, nil
}

// collectSKUs returns the distinct skus of the input. The product sku may
// coincide with a variant sku (the default variant inherits it) but two
// variants may not share one.
func collectSKUs(input *dto.CreateProductInput) ([]string, error) {
	seen := map[string]bool{}
	skus := []string{}
	if sku := strings.TrimSpace(input.SKU); sku != "" {
		seen[sku] = true
		skus = append(skus, sku)
	}

	variantSKUs := map[string]bool{}
	for _, v := range input.Variants {
		sku := strings.TrimSpace(v.SKU)
		if sku == "" {
			return nil, product.ErrVariantSKURequired
		}
		if variantSKUs[sku] {
			return nil, &product.SKUError{SKU: sku}
		}
		variantSKUs[sku] = true
		if !seen[sku] {
			seen[sku] = true
			skus = append(skus, sku)
		}
	}
	return skus, nil
}

func buildProduct(input *dto.CreateProductInput, now time.Time) (*model.Product, error) {
	id := uuid.New().String()

	highlights, err := json.Marshal(input.Highlights)
	if err != nil {
		return nil, err
	}
	attributes, err := json.Marshal(input.Attributes)
	if err != nil {
		return nil, err
	}
	images, err := json.Marshal(input.Images)
	if err != nil {
		return nil, err
	}
	grades, err := json.Marshal(input.Grades)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		BaseModel:        model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		VendorID:         input.VendorID,
		CategoryID:       optional(input.CategoryID),
		BrandID:          optional(input.BrandID),
		SKU:              strings.TrimSpace(input.SKU),
		Title:            input.Title,
		City:             input.City,
		ShortDescription: optional(input.ShortDescription),
		Description:      optional(input.Description),
		BasePrice:        input.Price,
		CompareAtPrice:   input.CompareAtPrice,
		Highlights:       types.JSONText(highlights),
		Attributes:       types.JSONText(attributes),
		Images:           types.JSONText(images),
		SchoolID:         optional(input.SchoolID),
		WarehouseID:      optional(input.WarehouseID),
		Grades:           types.JSONText(grades),
		IsActive:         true,
	}

	for _, o := range input.Options {
		values, err := json.Marshal(o.Values)
		if err != nil {
			return nil, err
		}
		p.Options = append(p.Options, model.ProductOption{
			ID:         uuid.New().String(),
			ProductID:  id,
			Name:       o.Name,
			Values:     types.JSONText(values),
			Position:   o.Position,
			IsRequired: o.IsRequired,
		})
	}

	for i, v := range input.Variants {
		meta := v.Metadata
		if meta == nil {
			meta = map[string]interface{}{}
		}
		metadata, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, model.ProductVariant{
			BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ProductID:      id,
			SKU:            strings.TrimSpace(v.SKU),
			Price:          v.Price,
			CompareAtPrice: v.CompareAtPrice,
			Weight:         v.Weight,
			Option1:        v.Option1,
			Option2:        v.Option2,
			Option3:        v.Option3,
			Position:       i + 1,
			Metadata:       types.JSONText(metadata),
			IsActive:       true,
		})
	}
	return p, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (uc *productUseCase) publishCreated(ctx context.Context, p *model.Product, input *dto.CreateProductInput) {
	if uc.publisher == nil {
		return
	}
	payload := model.ProductEventPayload{
		ProductID:   p.ID,
		VendorID:    p.VendorID,
		WarehouseID: p.WarehouseID,
	}
	for i, v := range p.Variants {
		payload.Variants = append(payload.Variants, model.VariantStockPayload{
			VariantID: v.ID,
			SKU:       v.SKU,
			Stock:     input.Variants[i].Stock,
		})
	}
	uc.publish(ctx, model.EventProductCreated, payload)
}

func (uc *productUseCase) publish(ctx context.Context, eventType string, payload model.ProductEventPayload) {
	if uc.publisher == nil {
		return
	}
	event := model.ProductEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal product event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, uc.topic, payload.ProductID, data); err != nil {
		uc.logger.Error("failed to publish product event",
			zap.String("event_type", eventType),
			zap.String("product_id", payload.ProductID),
			zap.Error(err),
		)
	}
}

// searchDocument is what the product index stores per product.
type searchDocument struct {
	*model.Product
	VariantSKUs []string `json:"variant_skus"`
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}

	doc := searchDocument{Product: p}
	for _, v := range p.Variants {
		doc.VariantSKUs = append(doc.VariantSKUs, v.SKU)
	}
	if err := uc.es.Index(ctx, indexName, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

// GetProduct returns ErrProductNotFound for products of other vendors.
func (uc *productUseCase) GetProduct(ctx context.Context, vendorID, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.VendorID != vendorID {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := generateCacheKey(filters)
	if err == nil {
		val, err := uc.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			var result cachedList
			if err := json.Unmarshal(val, &result); err == nil {
				return result.Products, result.Count, nil
			}
		case !errors.Is(err, cache.ErrCacheMiss):
			uc.logger.Warn("product list cache read failed", zap.Error(err))
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchProducts(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("product list cache write failed", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

func (uc *productUseCase) searchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"title^3", "sku", "variant_skus", "description"},
			},
		},
		{"term": map[string]interface{}{"vendor_id": filters.VendorID}},
	}
	if filters.CategoryID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category_id": filters.CategoryID}})
	}
	if filters.SchoolID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"school_id": filters.SchoolID}})
	}
	if filters.IsActive != nil {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must}},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.VendorID, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, vendorID string) {
	if err := uc.cache.DeletePattern(ctx, fmt.Sprintf("products:list:%s:*", vendorID)); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.String("vendor_id", vendorID), zap.Error(err))
	}
}

func (uc *productUseCase) SetProductActive(ctx context.Context, vendorID, id string, active bool) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetActive(ctx, vendorID, id, active); err != nil {
		return nil, err
	}
	p.IsActive = active
	p.UpdatedAt = time.Now()

	uc.async(func() {
		ctx := context.Background()
		uc.invalidateProductCache(ctx, vendorID)
		uc.syncToElastic(ctx, p)
	})
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, vendorID, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.VendorID != vendorID {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, vendorID, id); err != nil {
		return err
	}

	uc.async(func() {
		ctx := context.Background()
		uc.invalidateProductCache(ctx, vendorID)
		if uc.es != nil {
			if err := uc.es.Delete(ctx, indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}
		payload := model.ProductEventPayload{ProductID: p.ID, VendorID: p.VendorID, WarehouseID: p.WarehouseID}
		for _, v := range p.Variants {
			payload.Variants = append(payload.Variants, model.VariantStockPayload{VariantID: v.ID, SKU: v.SKU})
		}
		uc.publish(ctx, model.EventProductDeleted, payload)
	})
	return nil
}
