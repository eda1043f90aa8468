package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/domain/availability"
	"studio-booking/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	RedisAvailabilityVersionKey = "availability:version"
	RedisAvailabilityKeyPrefix  = "availability:v"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second
)

// AvailabilityCacheService caches computed availability in Redis.
//
// Entries are keyed by a version counter. Every write to appointments or
// blocks bumps the counter, so stale entries are never read again and expire
// on their own TTL. A nil Redis client disables the cache.
type AvailabilityCacheService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewAvailabilityCacheService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *AvailabilityCacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AvailabilityCacheService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// Enabled reports whether a Redis client is configured.
func (s *AvailabilityCacheService) Enabled() bool {
	return s != nil && s.redisClient != nil
}

// Version returns the current cache generation.
func (s *AvailabilityCacheService) Version(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	version, err := s.redisClient.Get(ctx, RedisAvailabilityVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// GetSlots looks up the available slots of date at the given version.
func (s *AvailabilityCacheService) GetSlots(ctx context.Context, version int64, date string) ([]string, bool) {
	var slots []string
	hit := s.get(ctx, slotsKey(version, date), &slots)
	return slots, hit
}

func (s *AvailabilityCacheService) SetSlots(ctx context.Context, version int64, date string, slots []string) {
	s.set(ctx, slotsKey(version, date), slots)
}

// GetWindow looks up the rolling window that starts at today.
func (s *AvailabilityCacheService) GetWindow(ctx context.Context, version int64, today string) ([]availability.DayAvailability, bool) {
	var days []availability.DayAvailability
	hit := s.get(ctx, windowKey(version, today), &days)
	return days, hit
}

func (s *AvailabilityCacheService) SetWindow(ctx context.Context, version int64, today string, days []availability.DayAvailability) {
	s.set(ctx, windowKey(version, today), days)
}

// Invalidate bumps the version so all cached entries become unreachable.
func (s *AvailabilityCacheService) Invalidate(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := s.redisClient.Incr(ctx, RedisAvailabilityVersionKey).Err(); err != nil {
		s.log.Warnf("Failed to invalidate availability cache: %+v", err)
	}
}

func (s *AvailabilityCacheService) get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to read availability cache %s: %+v", key, err)
		}
		metrics.RecordCacheLookup(false)
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warnf("Failed to decode availability cache %s: %+v", key, err)
		metrics.RecordCacheLookup(false)
		return false
	}

	metrics.RecordCacheLookup(true)
	return true
}

func (s *AvailabilityCacheService) set(ctx context.Context, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warnf("Failed to encode availability cache %s: %+v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := s.redisClient.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to write availability cache %s: %+v", key, err)
	}
}

func slotsKey(version int64, date string) string {
	return fmt.Sprintf("%s%d:date:%s", RedisAvailabilityKeyPrefix, version, date)
}

func windowKey(version int64, today string) string {
	return fmt.Sprintf("%s%d:window:%s", RedisAvailabilityKeyPrefix, version, today)
}
