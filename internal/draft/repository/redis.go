package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/draft"
	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps drafts as JSON documents that expire after ttl of
// inactivity. A per-vendor set indexes the drafts of each vendor.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func draftKey(id string) string { return fmt.Sprintf("drafts:%s", id) }

func vendorKey(vendorID string) string { return fmt.Sprintf("drafts:vendor:%s", vendorID) }

func (r *RedisRepository) Get(ctx context.Context, id string) (*draft.State, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, draft.ErrDraftNotFound
		}
		return nil, err
	}

	var s draft.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisRepository) Save(ctx context.Context, s *draft.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, draftKey(s.ID), data, r.ttl)
	pipe.SAdd(ctx, vendorKey(s.VendorID), s.ID)
	pipe.Expire(ctx, vendorKey(s.VendorID), r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisRepository) Delete(ctx context.Context, s *draft.State) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, draftKey(s.ID))
	pipe.SRem(ctx, vendorKey(s.VendorID), s.ID)
	_, err := pipe.Exec(ctx)
	return err
}

// ListByVendor returns the vendor's live drafts, most recently updated
// first. Ids whose draft has expired are pruned from the index.
func (r *RedisRepository) ListByVendor(ctx context.Context, vendorID string) ([]draft.State, error) {
	ids, err := r.client.SMembers(ctx, vendorKey(vendorID)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []draft.State{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = draftKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	drafts := make([]draft.State, 0, len(values))
	var expired []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var s draft.State
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decode draft %s: %w", ids[i], err)
		}
		drafts = append(drafts, s)
	}
	if len(expired) > 0 {
		if err := r.client.SRem(ctx, vendorKey(vendorID), expired...).Err(); err != nil {
			return nil, fmt.Errorf("prune expired drafts: %w", err)
		}
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}
