package googlefit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"golang.org/x/oauth2"
)

const tokenKey = "googlefit::token"

var ErrNoToken = errors.New("no google fit token")

// TokenStore keeps the OAuth token in redis, so a restart does not require
// going through the device flow again.
type TokenStore struct {
	redisClient *redis.Client
}

func NewTokenStore(redisClient *redis.Client) *TokenStore {
	return &TokenStore{
		redisClient: redisClient,
	}
}

func (s *TokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	cmd := s.redisClient.Get(ctx, tokenKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("get token: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(cmd.Val()), token); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Save(ctx context.Context, token *oauth2.Token) error {
	tokenBytes, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := s.redisClient.Set(ctx, tokenKey, string(tokenBytes), 0).Err(); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context) error {
	return s.redisClient.Del(ctx, tokenKey).Err()
}
