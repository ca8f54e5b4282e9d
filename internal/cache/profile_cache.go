package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vikrambadhan/HGNRest/internal/config"
	"github.com/vikrambadhan/HGNRest/internal/types/dto"
)

const profileTTL = 10 * time.Minute

// ProfileCache holds cached user profile entries keyed per user. It is
// best-effort: a cache failure is logged and never propagated, so an
// outage cannot fail a read or a membership mutation.
type ProfileCache struct {
	client *redis.Client
}

func NewProfileCache(cfg config.RedisConfig) *ProfileCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &ProfileCache{client: client}
}

func key(userID uuid.UUID) string {
	return fmt.Sprintf("user-%s", userID)
}

func (p *ProfileCache) Get(ctx context.Context, userID uuid.UUID) (dto.GetUserProfile, bool) {
	raw, err := p.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to read profile cache")
		}
		return dto.GetUserProfile{}, false
	}

	var profile dto.GetUserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		log.Logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to decode cached profile")
		return dto.GetUserProfile{}, false
	}
	return profile, true
}

func (p *ProfileCache) Set(ctx context.Context, userID uuid.UUID, profile dto.GetUserProfile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		log.Logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to encode profile for cache")
		return
	}
	if err := p.client.Set(ctx, key(userID), raw, profileTTL).Err(); err != nil {
		log.Logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to write profile cache")
	}
}

func (p *ProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := p.client.Del(ctx, key(userID)).Err(); err != nil {
		log.Logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to invalidate profile cache")
	}
}

// MembershipChanged drops the cached profile so the next read reflects
// the new team set. Satisfies events.MembershipListener.
func (p *ProfileCache) MembershipChanged(ctx context.Context, userID uuid.UUID) {
	p.Invalidate(ctx, userID)
}

func (p *ProfileCache) Close() error {
	return p.client.Close()
}
