package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogKeyPrefix = "rbac:perms:"

// Catalog answers permissionsForRole lookups, fronting the store with a
// Redis cache. Lookups are idempotent and side-effect-free apart from cache
// population. Mutating operations must call Invalidate within the same
// operation so revocations take effect immediately, never lazily.
type Catalog struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
}

// NewCatalog constructs a catalog. A nil client degrades to direct store
// reads, which keeps tests and single-process setups working.
func NewCatalog(store Store, client *redis.Client, ttl time.Duration) *Catalog {
	return &Catalog{store: store, client: client, ttl: ttl}
}

// PermissionsForRole returns the permission set granted to a role slug.
func (c *Catalog) PermissionsForRole(ctx context.Context, roleSlug string) (map[string]struct{}, error) {
	if c.client == nil {
		names, err := c.store.PermissionsForRole(ctx, roleSlug)
		if err != nil {
			return nil, err
		}
		return toSet(names), nil
	}

	key := catalogKeyPrefix + roleSlug
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var names []string
		if err := json.Unmarshal(payload, &names); err == nil {
			return toSet(names), nil
		}
		// Corrupt entry: fall through to reload.
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	names, err := c.store.PermissionsForRole(ctx, roleSlug)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(names); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return nil, err
		}
	}
	return toSet(names), nil
}

// HasPermission reports whether the role holds the permission.
func (c *Catalog) HasPermission(ctx context.Context, roleSlug, permission string) (bool, error) {
	perms, err := c.PermissionsForRole(ctx, roleSlug)
	if err != nil {
		return false, err
	}
	_, ok := perms[permission]
	return ok, nil
}

// Invalidate drops the cached entry for a role slug. Called synchronously
// by every role/permission mutation.
func (c *Catalog) Invalidate(ctx context.Context, roleSlug string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, catalogKeyPrefix+roleSlug).Err()
}

// Warm pre-loads catalog entries for every live role and returns how many
// were loaded.
func (c *Catalog) Warm(ctx context.Context) (int, error) {
	slugs, err := c.store.LiveRoleSlugs(ctx)
	if err != nil {
		return 0, err
	}
	for i, slug := range slugs {
		if _, err := c.PermissionsForRole(ctx, slug); err != nil {
			return i, err
		}
	}
	return len(slugs), nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
