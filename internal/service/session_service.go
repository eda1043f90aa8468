package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const RedisSessionKeyPrefix = "admin_session:"

// SessionService tracks issued admin session tokens in Redis so a logout
// revokes the token before it expires. Without Redis every validly signed
// token is accepted until expiry.
type SessionService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSessionService(redisClient *redis.Client, log *logrus.Logger) *SessionService {
	return &SessionService{redisClient: redisClient, log: log}
}

func (s *SessionService) Register(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s.redisClient == nil {
		return nil
	}
	if err := s.redisClient.Set(ctx, sessionKey(tokenID), "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store admin session in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *SessionService) IsActive(ctx context.Context, tokenID string) (bool, error) {
	if s.redisClient == nil {
		return true, nil
	}
	exists, err := s.redisClient.Exists(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *SessionService) Revoke(ctx context.Context, tokenID string) error {
	if s.redisClient == nil {
		return nil
	}
	if err := s.redisClient.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		s.log.Warnf("Failed to revoke admin session: %+v", err)
		return err
	}
	return nil
}

func sessionKey(tokenID string) string {
	return fmt.Sprintf("%s%s", RedisSessionKeyPrefix, tokenID)
}
