package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cache"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/repository/redis/converter"
	"github.com/DRSN-tech/product-dashboard/pkg/clients"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/jimlawless/whereami"
)

// SnapshotRepo хранит записи кэша в Redis вместе с индексом по тегам.
//
// Раскладка ключей:
//
//	<prefix>entry:<op>(<args>)  JSON записи, с TTL
//	<prefix>entries             множество всех ключей записей
//	<prefix>tag:<tag>           множество ключей записей с этим тегом
//	<prefix>tag:<type>          множество ключей записей с тегом этого типа
type SnapshotRepo struct {
	client *clients.RedisClient
	conv   converter.SnapshotConverter
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

func NewSnapshotRepo(client *clients.RedisClient, conv converter.SnapshotConverter,
	prefix string, ttl time.Duration, logger logger.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		client: client,
		conv:   conv,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Save записывает снимок и обновляет индексы одним пайплайном.
func (r *SnapshotRepo) Save(ctx context.Context, snap cache.Snapshot) error {
	data, err := json.Marshal(r.conv.ToRedisModel(&snap))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	key := r.entryKey(snap.Key)
	pipeline := r.client.Client.TxPipeline()
	pipeline.Set(ctx, key, data, r.ttl)
	pipeline.SAdd(ctx, r.indexKey(), key)
	for _, setKey := range r.tagSetKeys(snap.Tags) {
		pipeline.SAdd(ctx, setKey, key)
		pipeline.Expire(ctx, setKey, r.ttl)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

// DeleteByTags удаляет записи, помеченные любым из тегов.
func (r *SnapshotRepo) DeleteByTags(ctx context.Context, tags []domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	setKeys := make([]string, 0, len(tags))
	for _, t := range tags {
		setKeys = append(setKeys, r.tagKey(t.String()))
	}

	keys, err := r.client.Client.SUnion(ctx, setKeys...).Result()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if len(keys) == 0 {
		return nil
	}

	members := make([]any, len(keys))
	for i, k := range keys {
		members[i] = k
	}

	pipeline := r.client.Client.TxPipeline()
	pipeline.Del(ctx, keys...)
	pipeline.SRem(ctx, r.indexKey(), members...)
	for _, setKey := range setKeys {
		pipeline.SRem(ctx, setKey, members...)
	}
	if _, err := pipeline.Exec(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

// LoadAll читает все живые записи. Ключи с истёкшим TTL вычищаются из индекса.
func (r *SnapshotRepo) LoadAll(ctx context.Context) ([]cache.Snapshot, error) {
	keys, err := r.client.Client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := r.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var (
		snaps   = make([]cache.Snapshot, 0, len(values))
		expired []any
	)
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}
		if data == nil {
			expired = append(expired, keys[i])
			continue
		}

		var model converter.SnapshotRedisModel
		if err := json.Unmarshal(data, &model); err != nil {
			r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}
		snaps = append(snaps, *r.conv.ToCache(&model))
	}

	if len(expired) > 0 {
		if err := r.client.Client.SRem(ctx, r.indexKey(), expired...).Err(); err != nil {
			r.logger.Warnf("Redis SREM failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
	}

	return snaps, nil
}

func (r *SnapshotRepo) entryKey(k cache.Key) string {
	return r.prefix + "entry:" + k.String()
}

func (r *SnapshotRepo) indexKey() string {
	return r.prefix + "entries"
}

func (r *SnapshotRepo) tagKey(tag string) string {
	return r.prefix + "tag:" + tag
}

// tagSetKeys возвращает множества, в которые попадает запись: по точному тегу и по типу.
func (r *SnapshotRepo) tagSetKeys(tags []domain.Tag) []string {
	seen := make(map[string]struct{}, len(tags)*2)
	out := make([]string, 0, len(tags)*2)
	for _, t := range tags {
		for _, s := range []string{t.String(), t.Type} {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, r.tagKey(s))
		}
	}
	return out
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // запись истекла
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
