package memory

import (
	"context"
	"encoding/json"
	"time"

	"tapcard-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// DecisionCache keeps recently resolved entitlements. Entries are short
// lived and invalidated by every mutation that can change a subject's
// resolution, so Resolve stays deterministic over stored state.
type DecisionCache interface {
	Get(ctx context.Context, subjectId uuid.UUID) (*entity.Entitlement, bool)
	Set(ctx context.Context, ent *entity.Entitlement)
	Invalidate(ctx context.Context, subjectId uuid.UUID)
}

const decisionTTL = 30 * time.Second

type memoryDecisionCache struct {
	cache *cache.Cache
}

func NewDecisionCache() DecisionCache {
	return &memoryDecisionCache{
		cache: cache.New(decisionTTL, time.Minute),
	}
}

func (c *memoryDecisionCache) Get(ctx context.Context, subjectId uuid.UUID) (*entity.Entitlement, bool) {
	if v, found := c.cache.Get(subjectId.String()); found {
		ent := v.(entity.Entitlement)
		return &ent, true
	}
	return nil, false
}

func (c *memoryDecisionCache) Set(ctx context.Context, ent *entity.Entitlement) {
	c.cache.Set(ent.SubjectId.String(), *ent, cache.DefaultExpiration)
}

func (c *memoryDecisionCache) Invalidate(ctx context.Context, subjectId uuid.UUID) {
	c.cache.Delete(subjectId.String())
}

type redisDecisionCache struct {
	client *redis.Client
}

// NewRedisDecisionCache shares decisions across instances. Used when
// REDIS_URL is configured; the memory cache is the default.
func NewRedisDecisionCache(client *redis.Client) DecisionCache {
	return &redisDecisionCache{client: client}
}

func (c *redisDecisionCache) key(subjectId uuid.UUID) string {
	return "entitlement:decision:" + subjectId.String()
}

func (c *redisDecisionCache) Get(ctx context.Context, subjectId uuid.UUID) (*entity.Entitlement, bool) {
	raw, err := c.client.Get(ctx, c.key(subjectId)).Bytes()
	if err != nil {
		return nil, false
	}
	var ent entity.Entitlement
	if err := json.Unmarshal(raw, &ent); err != nil {
		return nil, false
	}
	return &ent, true
}

func (c *redisDecisionCache) Set(ctx context.Context, ent *entity.Entitlement) {
	raw, err := json.Marshal(ent)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(ent.SubjectId), raw, decisionTTL)
}

func (c *redisDecisionCache) Invalidate(ctx context.Context, subjectId uuid.UUID) {
	c.client.Del(ctx, c.key(subjectId))
}
