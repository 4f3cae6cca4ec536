package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const (
	// Redis key prefix for booked start times of one provider on one date
	RedisBookedSlotsKeyPrefix = "appointment:booked:"

	// Set member marking a key as fully loaded from the database.
	// Redis drops empty sets, so a provider/date with no bookings still needs a member.
	bookedSlotsLoadedMarker = "-"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second

	// Timeout for a shared database load behind a cache miss
	bookedTimesLoadTimeout = 5 * time.Second
)

// loadedMembersScript returns the set members only if the loaded marker is present.
// A set without the marker holds times added by bookings before the first full load
// and must not be mistaken for the complete picture.
//
// Returns: members (marker included) or empty array
var loadedMembersScript = redis.NewScript(`
	if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 1 then
		return redis.call('SMEMBERS', KEYS[1])
	end
	return {}
`)

// BookedTimesLoader reads booked start times from the source of truth.
type BookedTimesLoader func(ctx context.Context) ([]datatypes.Time, error)

// BookedSlotCache is a read-through cache of booked start times per provider and date.
// The database stays authoritative; a stale cache only affects the advisory open slot list.
type BookedSlotCache interface {
	BookedTimes(ctx context.Context, providerID uuid.UUID, date time.Time, load BookedTimesLoader) ([]datatypes.Time, error)
	MarkBooked(ctx context.Context, providerID uuid.UUID, date time.Time, start datatypes.Time)
}

// RedisBookedSlotCache keeps one Redis set per provider/date.
//
// Concurrent misses for the same key are coalesced with singleflight so a burst of
// slot listings triggers a single database query.
type RedisBookedSlotCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	group       singleflight.Group
	now         func() time.Time
}

func NewRedisBookedSlotCache(redisClient *redis.Client, log *logrus.Logger) *RedisBookedSlotCache {
	return &RedisBookedSlotCache{
		redisClient: redisClient,
		log:         log,
		now:         time.Now,
	}
}

// BookedTimes returns cached times, loading and storing them on a miss.
// Redis failures fall back to load.
func (c *RedisBookedSlotCache) BookedTimes(ctx context.Context, providerID uuid.UUID, date time.Time, load BookedTimesLoader) ([]datatypes.Time, error) {
	key := bookedSlotsKey(providerID, date)

	cached, hit, err := c.get(ctx, key)
	if err != nil {
		c.log.Warnf("Failed to read booked slots cache %s: %+v", key, err)
		return load(ctx)
	}
	if hit {
		return cached, nil
	}

	// The load is shared by every waiter on the key, so it must outlive the caller that started it.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bookedTimesLoadTimeout)
		defer cancel()

		times, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(loadCtx, key, date, times)
		return times, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]datatypes.Time), nil
	}
}

// MarkBooked adds a committed booking to the cached set.
// On failure the key is dropped so the next read reloads from the database.
// The booking is already committed, so the update ignores caller cancellation.
func (c *RedisBookedSlotCache) MarkBooked(ctx context.Context, providerID uuid.UUID, date time.Time, start datatypes.Time) {
	key := bookedSlotsKey(providerID, date)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisCacheTimeout)
	defer cancel()

	pipe := c.redisClient.TxPipeline()
	pipe.SAdd(ctx, key, start.String())
	pipe.Expire(ctx, key, c.calculateTTL(date))

	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warnf("Failed to mark slot %s booked in cache: %+v", entity.SlotKey(providerID, date, start), err)
		if delErr := c.redisClient.Del(ctx, key).Err(); delErr != nil {
			c.log.Warnf("Failed to drop booked slots cache %s: %+v", key, delErr)
		}
		return
	}

	c.log.Debugf("Marked slot %s booked in cache", entity.SlotKey(providerID, date, start))
}

func (c *RedisBookedSlotCache) get(ctx context.Context, key string) ([]datatypes.Time, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	members, err := loadedMembersScript.Run(ctx, c.redisClient, []string{key}, bookedSlotsLoadedMarker).StringSlice()
	if err != nil {
		return nil, false, fmt.Errorf("lua loaded_members for %s: %w", key, err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	times := make([]datatypes.Time, 0, len(members)-1)
	for _, m := range members {
		if m == bookedSlotsLoadedMarker {
			continue
		}
		var t datatypes.Time
		if err := t.Scan(m); err != nil {
			return nil, false, fmt.Errorf("decode cached slot %q: %w", m, err)
		}
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	return times, true, nil
}

// store writes the loaded times plus the marker. SADD keeps any time a concurrent
// booking added between the database read and this write.
func (c *RedisBookedSlotCache) store(ctx context.Context, key string, date time.Time, times []datatypes.Time) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	members := make([]interface{}, 0, len(times)+1)
	members = append(members, bookedSlotsLoadedMarker)
	for _, t := range times {
		members = append(members, t.String())
	}

	pipe := c.redisClient.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, c.calculateTTL(date))

	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warnf("Failed to store booked slots cache %s: %+v", key, err)
		return
	}

	c.log.Debugf("Cached %d booked slots at %s", len(times), key)
}

// calculateTTL returns TTL: 24 hours after the appointment date
func (c *RedisBookedSlotCache) calculateTTL(date time.Time) time.Duration {
	expireAt := date.AddDate(0, 0, 1)
	ttl := expireAt.Sub(c.now())

	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}

	return ttl
}

func bookedSlotsKey(providerID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisBookedSlotsKeyPrefix, providerID, date.Format(entity.DateLayout))
}

// NoopBookedSlotCache always reads through to the loader.
type NoopBookedSlotCache struct{}

func (NoopBookedSlotCache) BookedTimes(ctx context.Context, _ uuid.UUID, _ time.Time, load BookedTimesLoader) ([]datatypes.Time, error) {
	return load(ctx)
}

func (NoopBookedSlotCache) MarkBooked(context.Context, uuid.UUID, time.Time, datatypes.Time) {}
