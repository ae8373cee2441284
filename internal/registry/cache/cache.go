// Package cache provides an optional Redis read-through layer over the
// registries. Gate traffic is read-heavy and repetitive (the same commuters
// every morning), so short-TTL caching takes most lookups off the database.
//
// Cache entries are point-in-time snapshots: a status change mid-flight may
// legitimately affect only attempts that start after the cached entry
// expires, which matches the registries' consistency contract. Not-found is
// cached too so unknown plates don't hammer the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"campusgate/internal/registry"
	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/sentinel"
)

const notFoundMarker = "__not_found__"

// RegistryCache wraps both registries with Redis caching. A cache error is
// never surfaced; the lookup falls through to the backing registry.
type RegistryCache struct {
	persons  registry.IdentityRegistry
	vehicles registry.VehicleRegistry
	client   *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

func New(persons registry.IdentityRegistry, vehicles registry.VehicleRegistry, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RegistryCache {
	return &RegistryCache{persons: persons, vehicles: vehicles, client: client, ttl: ttl, logger: logger}
}

func (c *RegistryCache) LookupPerson(ctx context.Context, personID id.PersonID) (models.Person, error) {
	key := fmt.Sprintf("registry:person:%s", personID)

	var cached models.Person
	hit, notFound := c.get(ctx, key, &cached)
	if notFound {
		return models.Person{}, sentinel.ErrNotFound
	}
	if hit {
		return cached, nil
	}

	person, err := c.persons.LookupPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.setNotFound(ctx, key)
		}
		return models.Person{}, err
	}
	c.set(ctx, key, person)
	return person, nil
}

func (c *RegistryCache) LookupVehicle(ctx context.Context, plate id.Plate) (models.Vehicle, error) {
	key := fmt.Sprintf("registry:vehicle:%s", plate)

	var cached models.Vehicle
	hit, notFound := c.get(ctx, key, &cached)
	if notFound {
		return models.Vehicle{}, sentinel.ErrNotFound
	}
	if hit {
		return cached, nil
	}

	vehicle, err := c.vehicles.LookupVehicle(ctx, plate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.setNotFound(ctx, key)
		}
		return models.Vehicle{}, err
	}
	c.set(ctx, key, vehicle)
	return vehicle, nil
}

// Invalidate drops cached entries after a registry write so authority
// actions (deactivation, transfer) take effect within a request, not a TTL.
func (c *RegistryCache) Invalidate(ctx context.Context, keys ...string) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = "registry:" + k
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		c.logger.WarnContext(ctx, "registry cache invalidation failed", "error", err)
	}
}

func (c *RegistryCache) get(ctx context.Context, key string, dest any) (hit, notFound bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "registry cache read failed", "key", key, "error", err)
		}
		return false, false
	}
	if raw == notFoundMarker {
		return false, true
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.logger.WarnContext(ctx, "registry cache entry corrupt", "key", key, "error", err)
		return false, false
	}
	return true, false
}

func (c *RegistryCache) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "registry cache write failed", "key", key, "error", err)
	}
}

func (c *RegistryCache) setNotFound(ctx context.Context, key string) {
	if err := c.client.Set(ctx, key, notFoundMarker, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "registry cache write failed", "key", key, "error", err)
	}
}
