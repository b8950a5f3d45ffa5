// Package cache — кэш результатов запросов с инвалидацией по тегам.
package cache

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxAge         = 60 * time.Second
	defaultPersistTimeout = 500 * time.Millisecond
)

// Persister сохраняет записи кэша вне процесса.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
	DeleteByTags(ctx context.Context, tags []domain.Tag) error
	LoadAll(ctx context.Context) ([]Snapshot, error)
}

type Options struct {
	// MaxAge — после этого срока запись перезапрашивается, даже если её не инвалидировали.
	MaxAge time.Duration
	// Persister — необязательное внешнее хранилище снимков.
	Persister      Persister
	PersistTimeout time.Duration
}

// Cache хранит записи по ключу (операция, аргументы). На один ключ одновременно идёт не больше одного запроса.
type Cache struct {
	mu      sync.Mutex
	entries Entries
	gens    map[Key]uint64
	// epoch растёт при каждой инвалидации; invalidated хранит эпоху последней инвалидации тега
	epoch       uint64
	invalidated map[string]uint64
	resetAt     uint64
	subs        map[Key]map[uint64]chan struct{}
	nextSub     uint64
	uncached    map[string]struct{}
	// inflight считает идущие запросы по ключу; provides — типы тегов, которые может вернуть операция
	inflight map[Key]int
	provides map[string][]string

	group  singleflight.Group
	opts   Options
	logger logger.Logger
	now    func() time.Time
}

func New(opts Options, log logger.Logger) *Cache {
	if opts.MaxAge <= 0 {
		opts.MaxAge = defaultMaxAge
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = defaultPersistTimeout
	}

	return &Cache{
		entries:     make(Entries),
		gens:        make(map[Key]uint64),
		invalidated: make(map[string]uint64),
		subs:        make(map[Key]map[uint64]chan struct{}),
		uncached:    make(map[string]struct{}),
		inflight:    make(map[Key]int),
		provides:    make(map[string][]string),
		opts:        opts,
		logger:      log,
		now:         time.Now,
	}
}

// Uncached исключает операцию из снимков. В памяти её записи живут как обычно.
func (c *Cache) Uncached(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uncached[op] = struct{}{}
}

// Provides объявляет типы тегов, которые несут результаты операции.
// Инвалидация других типов не разделяет идущие запросы этой операции.
// Для необъявленной операции любая инвалидация считается задевающей.
func (c *Cache) Provides(op string, tagTypes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provides[op] = append([]string(nil), tagTypes...)
}

type fetchResult struct {
	value any
	tags  []domain.Tag
}

// Read возвращает свежее значение из кэша или выполняет fetch.
// Общий запрос идёт на контексте без отмены: уход одного ожидающего не прерывает остальных.
func Read[T any](ctx context.Context, c *Cache, op string, args any, tagsFn func(T) []domain.Tag, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	key := KeyFor(op, args)

	if v, ok := lookup[T](c, key); ok {
		return v, nil
	}

	c.mu.Lock()
	gen := c.gens[key]
	c.mu.Unlock()

	// поколение ключа меняется только при инвалидации, задевающей этот ключ
	flightKey := key.String() + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		c.mu.Lock()
		epoch := c.epoch
		c.inflight[key]++
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			if c.inflight[key]--; c.inflight[key] <= 0 {
				delete(c.inflight, key)
			}
			c.mu.Unlock()
		}()

		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		var tags []domain.Tag
		if tagsFn != nil {
			tags = tagsFn(v)
		}
		c.store(key, gen, epoch, v, tags)
		return fetchResult{value: v, tags: tags}, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(fetchResult).value.(T), nil
	}
}

// lookup возвращает свежую запись. Снимок из Redis хранится как json.RawMessage и декодируется здесь.
func lookup[T any](c *Cache, key Key) (T, bool) {
	var zero T

	c.mu.Lock()
	en, ok := c.entries[key]
	c.mu.Unlock()
	if !ok || en.Stale || c.now().Sub(en.UpdatedAt) > c.opts.MaxAge {
		return zero, false
	}

	switch v := en.Value.(type) {
	case T:
		return v, true
	case json.RawMessage:
		var decoded T
		if err := json.Unmarshal(v, &decoded); err != nil {
			c.logger.Warnf("dropping undecodable snapshot %s: %v", key, err)
			return zero, false
		}
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.Generation == en.Generation {
			cur.Value = decoded
			c.entries[key] = cur
		}
		c.mu.Unlock()
		return decoded, true
	default:
		return zero, false
	}
}

// store записывает результат, только если с начала запроса не менялся ни ключ, ни его теги.
func (c *Cache) store(key Key, gen, epoch uint64, value any, tags []domain.Tag) {
	c.mu.Lock()
	if c.gens[key] != gen || c.invalidatedSinceLocked(tags, epoch) {
		c.mu.Unlock()
		c.logger.Debugf("discarding outdated result for %s", key)
		return
	}
	gen++
	c.gens[key] = gen
	c.entries[key] = Entry{
		Value:      value,
		Tags:       tags,
		Generation: gen,
		UpdatedAt:  c.now(),
	}
	_, skip := c.uncached[key.Op]
	c.notifyLocked(key)
	c.mu.Unlock()

	if !skip {
		c.persist(key, value, tags)
	}
}

// Invalidate помечает устаревшими все записи с пересекающимися тегами и уведомляет подписчиков.
func (c *Cache) Invalidate(tags ...domain.Tag) {
	if len(tags) == 0 {
		return
	}

	c.mu.Lock()
	c.epoch++
	for _, t := range tags {
		c.invalidated[t.String()] = c.epoch
	}
	next := InvalidateEntries(c.entries, tags...)
	bumped := make(map[Key]struct{})
	for k, en := range next {
		if intersects(en.Tags, tags) {
			c.gens[k]++
			bumped[k] = struct{}{}
			en.Generation = c.gens[k]
			next[k] = en
			c.notifyLocked(k)
		}
	}
	c.entries = next
	// новый результат может нести теги, которых нет в старой записи
	for k := range c.inflight {
		if _, ok := bumped[k]; !ok && c.mayCarryLocked(k.Op, tags) {
			c.gens[k]++
		}
	}
	c.mu.Unlock()

	if c.opts.Persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.PersistTimeout)
		defer cancel()
		if err := c.opts.Persister.DeleteByTags(ctx, tags); err != nil {
			c.logger.Warnf("failed to drop snapshot entries: %v", err)
		}
	}
}

// mayCarryLocked сообщает, может ли результат операции op нести один из тегов.
func (c *Cache) mayCarryLocked(op string, tags []domain.Tag) bool {
	types, ok := c.provides[op]
	if !ok {
		return true
	}
	for _, t := range tags {
		if slices.Contains(types, t.Type) {
			return true
		}
	}
	return false
}

func (c *Cache) invalidatedSinceLocked(tags []domain.Tag, epoch uint64) bool {
	if c.resetAt > epoch {
		return true
	}
	for _, t := range tags {
		if c.invalidated[t.String()] > epoch {
			return true
		}
		if t.ID != "" && c.invalidated[t.Type] > epoch {
			return true
		}
	}
	return false
}

// Patch меняет закэшированное значение без запроса. false: записи нет или mutate отказался.
// Новое значение считается актуальным, поэтому признак Stale снимается.
func Patch[T any](c *Cache, op string, args any, mutate func(T) (T, bool)) bool {
	key := KeyFor(op, args)

	c.mu.Lock()
	en, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return false
	}

	var cur T
	switch v := en.Value.(type) {
	case T:
		cur = v
	case json.RawMessage:
		if err := json.Unmarshal(v, &cur); err != nil {
			c.mu.Unlock()
			return false
		}
	default:
		c.mu.Unlock()
		return false
	}

	next, ok := mutate(cur)
	if !ok {
		c.mu.Unlock()
		return false
	}

	c.gens[key]++
	en.Value = next
	en.Stale = false
	en.Generation = c.gens[key]
	en.UpdatedAt = c.now()
	c.entries[key] = en
	_, skip := c.uncached[key.Op]
	c.notifyLocked(key)
	c.mu.Unlock()

	if !skip {
		c.persist(key, next, en.Tags)
	}
	return true
}

// Subscribe возвращает канал, в который приходит сигнал при изменении записи или её устаревании.
func (c *Cache) Subscribe(op string, args any) (<-chan struct{}, func()) {
	key := KeyFor(op, args)
	ch := make(chan struct{}, 1)

	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	if c.subs[key] == nil {
		c.subs[key] = make(map[uint64]chan struct{})
	}
	c.subs[key][id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[key], id)
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
			c.mu.Unlock()
		})
	}
}

func (c *Cache) notifyLocked(key Key) {
	for _, ch := range c.subs[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Peek возвращает запись как есть, без запроса. Для тестов и диагностики.
func (c *Cache) Peek(op string, args any) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	en, ok := c.entries[KeyFor(op, args)]
	return en, ok
}

// Reset очищает кэш (выход из сессии).
func (c *Cache) Reset() {
	c.mu.Lock()
	c.epoch++
	c.resetAt = c.epoch
	for k := range c.entries {
		c.gens[k]++
		c.notifyLocked(k)
	}
	for k := range c.inflight {
		if _, ok := c.entries[k]; !ok {
			c.gens[k]++
		}
	}
	c.entries = make(Entries)
	c.mu.Unlock()

	if c.opts.Persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.PersistTimeout)
		defer cancel()
		tags := []domain.Tag{{Type: domain.TagTypeProduct}, domain.CategoryTag()}
		if err := c.opts.Persister.DeleteByTags(ctx, tags); err != nil {
			c.logger.Warnf("failed to drop snapshot entries: %v", err)
		}
	}
}

// Warm загружает снимок. Записи, уже появившиеся в памяти, не перезаписываются.
func (c *Cache) Warm(ctx context.Context) error {
	if c.opts.Persister == nil {
		return nil
	}

	snaps, err := c.opts.Persister.LoadAll(ctx)
	if err != nil {
		return e.Wrap("Cache.Warm", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range snaps {
		if _, ok := c.entries[s.Key]; ok {
			continue
		}
		if _, skip := c.uncached[s.Key.Op]; skip {
			continue
		}
		c.gens[s.Key]++
		c.entries[s.Key] = Entry{
			Value:      s.Value,
			Tags:       s.Tags,
			Generation: c.gens[s.Key],
			UpdatedAt:  c.now(),
		}
	}
	c.logger.Infof("cache warmed with %d snapshot entries", len(snaps))
	return nil
}

func (c *Cache) persist(key Key, value any, tags []domain.Tag) {
	if c.opts.Persister == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warnf("failed to encode snapshot %s: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.PersistTimeout)
	defer cancel()
	if err := c.opts.Persister.Save(ctx, Snapshot{Key: key, Value: raw, Tags: tags}); err != nil {
		c.logger.Warnf("failed to save snapshot %s: %v", key, err)
	}
}
