package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/friend-graph/internal/model"
	"github.com/d60-Lab/friend-graph/internal/repository"
	"github.com/d60-Lab/friend-graph/pkg/logger"
)

// userSnapshot is the cached form of a user row. Friend sets are never cached,
// so popularity is still computed from the live friendship table.
type userSnapshot struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Age       int       `json:"age"`
	Hobbies   []string  `json:"hobbies"`
	CreatedAt time.Time `json:"created_at"`
}

func toSnapshot(u *model.User) userSnapshot {
	return userSnapshot{ID: u.ID, Username: u.Username, Age: u.Age, Hobbies: u.Hobbies, CreatedAt: u.CreatedAt}
}

func (s userSnapshot) toModel() *model.User {
	hobbies := s.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	return &model.User{ID: s.ID, Username: s.Username, Age: s.Age, Hobbies: hobbies, CreatedAt: s.CreatedAt}
}

// 写路径在 key 上留一个短期占位值，窗口内的读不回填缓存，
// 防止写之前读到的旧行被写回。
const (
	guardValue = "-"
	guardTTL   = 5 * time.Second
)

// UserCache wraps a UserRepository with a Redis read-through cache keyed by
// user id. Writes guard the key before and after touching the store; reads
// fill it with SETNX so they never overwrite a guard.
type UserCache struct {
	repository.UserRepository
	cache *redis.Client
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

var _ repository.UserRepository = (*UserCache)(nil)

// NewUserCache builds a cached repository. A nil client returns next unchanged.
func NewUserCache(next repository.UserRepository, cache *redis.Client, ttl time.Duration) repository.UserRepository {
	if cache == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UserCache{UserRepository: next, cache: cache, ttl: ttl}
}

func userKey(id string) string { return fmt.Sprintf("user:%s", id) }

func (c *UserCache) GetByID(ctx context.Context, id string) (*model.User, error) {
	if repository.FreshRead(ctx) {
		return c.UserRepository.GetByID(ctx, id)
	}
	if data, err := c.cache.Get(ctx, userKey(id)).Bytes(); err == nil {
		var snap userSnapshot
		if uErr := json.Unmarshal(data, &snap); uErr == nil {
			c.hits.Add(1)
			return snap.toModel(), nil
		}
	}
	c.misses.Add(1)

	u, err := c.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, u)
	return u, nil
}

func (c *UserCache) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	if repository.FreshRead(ctx) {
		return c.UserRepository.GetByIDs(ctx, ids)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}

	found := make(map[string]*model.User, len(ids))
	if vals, err := c.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var snap userSnapshot
			if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
				found[ids[i]] = snap.toModel()
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.hits.Add(int64(len(ids) - len(missing)))

	if len(missing) > 0 {
		c.misses.Add(int64(len(missing)))
		users, err := c.UserRepository.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			found[u.ID] = u
			c.store(ctx, u)
		}
	}

	result := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := found[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (c *UserCache) Update(ctx context.Context, u *model.User) error {
	c.evict(ctx, u.ID)
	err := c.UserRepository.Update(ctx, u)
	c.evict(ctx, u.ID)
	return err
}

func (c *UserCache) Delete(ctx context.Context, id string) (bool, error) {
	c.evict(ctx, id)
	deleted, err := c.UserRepository.Delete(ctx, id)
	c.evict(ctx, id)
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (c *UserCache) store(ctx context.Context, u *model.User) {
	payload, err := json.Marshal(toSnapshot(u))
	if err != nil {
		return
	}
	if err := c.cache.SetNX(ctx, userKey(u.ID), payload, c.ttl).Err(); err != nil {
		logger.Warn("user cache set failed", zap.String("user", u.ID), zap.Error(err))
	}
}

// evict replaces the entry with a short-lived guard.
func (c *UserCache) evict(ctx context.Context, id string) {
	if err := c.cache.Set(ctx, userKey(id), guardValue, guardTTL).Err(); err != nil {
		logger.Warn("user cache evict failed", zap.String("user", id), zap.Error(err))
	}
}

// Stats reports cache hits and misses since the last Reset.
func (c *UserCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *UserCache) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
}
