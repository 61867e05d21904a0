package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plumbline-app/plumbline/internal/apperror"
)

// prefsKeyPrefix is the Redis key prefix for cached preferences.
const prefsKeyPrefix = "notify:prefs:"

// prefsCacheTTL bounds how stale a cached preference row can get if an
// invalidation is ever missed.
const prefsCacheTTL = time.Hour

// PreferenceService handles reading and writing notification toggles, with
// reads served from a Redis cache in front of MariaDB.
type PreferenceService interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Update(ctx context.Context, userID string, input UpdateInput) (Preferences, error)
}

// preferenceService implements PreferenceService.
type preferenceService struct {
	prefs PreferenceRepository
	redis *redis.Client
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(prefs PreferenceRepository, rdb *redis.Client) PreferenceService {
	return &preferenceService{prefs: prefs, redis: rdb}
}

// Get returns a user's toggles, from cache when possible. Users who never
// saved anything get the defaults. Cache failures fall through to the
// database.
func (s *preferenceService) Get(ctx context.Context, userID string) (Preferences, error) {
	if userID == "" {
		return Preferences{}, apperror.NewBadRequest("user id is required")
	}

	key := prefsKeyPrefix + userID
	if data, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var cached Preferences
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		slog.Warn("preference cache read failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	stored, err := s.prefs.Find(ctx, userID)
	if errors.Is(err, ErrNoPreferences) {
		defaults := DefaultPreferences(userID)
		s.cache(ctx, key, defaults)
		return defaults, nil
	}
	if err != nil {
		return Preferences{}, apperror.NewInternal(fmt.Errorf("loading preferences: %w", err))
	}

	s.cache(ctx, key, *stored)
	return *stored, nil
}

// Update persists new toggles and invalidates the cache entry.
func (s *preferenceService) Update(ctx context.Context, userID string, input UpdateInput) (Preferences, error) {
	if userID == "" {
		return Preferences{}, apperror.NewBadRequest("user id is required")
	}

	prefs := Preferences{
		UserID:        userID,
		OrderAssigned: input.OrderAssigned,
		StatusChange:  input.StatusChange,
		DueSoonDigest: input.DueSoonDigest,
	}

	if err := s.prefs.Upsert(ctx, &prefs); err != nil {
		return Preferences{}, apperror.NewInternal(fmt.Errorf("saving preferences: %w", err))
	}

	// Invalidate rather than write-through: the next read repopulates, and a
	// failed delete only costs one stale hour.
	if err := s.redis.Del(ctx, prefsKeyPrefix+userID).Err(); err != nil {
		slog.Warn("preference cache invalidation failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	slog.Info("notification preferences updated", slog.String("user_id", userID))
	return prefs, nil
}

// cache stores preferences in Redis, ignoring failures.
func (s *preferenceService) cache(ctx context.Context, key string, prefs Preferences) {
	data, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, prefsCacheTTL).Err(); err != nil {
		slog.Warn("preference cache write failed", slog.Any("error", err))
	}
}
