package redisx

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/meninadelaco/storefront/internal/catalog"
)

// SessionCache persists the mock session record in redis so a signed-in
// admin survives an api restart. Implements auth.SessionCache.
type SessionCache struct{ R *redis.Client }

func (c *SessionCache) Save(ctx context.Context, u catalog.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, KeySession, b, 0).Err()
}

func (c *SessionCache) Load(ctx context.Context) (*catalog.User, error) {
	b, err := c.R.Get(ctx, KeySession).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u catalog.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *SessionCache) Clear(ctx context.Context) error {
	return c.R.Del(ctx, KeySession).Err()
}
