package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mediation-api/core/cache"
	"mediation-api/core/logger"
	"mediation-api/core/utils"
)

// JWTResolver verifies "Authorization: Bearer" tokens issued by the upstream
// auth service. When a cache is configured, revoked tokens are rejected.
type JWTResolver struct {
	secret string
	cache  cache.Cache
}

var _ Resolver = (*JWTResolver)(nil)

func NewJWTResolver(secret string, c cache.Cache) *JWTResolver {
	return &JWTResolver{secret: secret, cache: c}
}

func (j *JWTResolver) Resolve(r *http.Request) (*Caller, error) {
	token, err := utils.GetTokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, err := utils.ValidateAndParseToken(j.secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if j.cache != nil {
		revoked, err := j.cache.IsTokenBlacklisted(r.Context(), token)
		if err != nil {
			logger.Error("JWTResolver:Resolve:IsTokenBlacklisted:Error", "error", err)
			return nil, err
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
		}
	}

	return &Caller{UserID: claims.UserID}, nil
}

// Revoke blacklists token until it would have expired anyway.
func (j *JWTResolver) Revoke(ctx context.Context, token string) error {
	if j.cache == nil {
		return errors.New("token revocation needs a cache")
	}

	claims, err := utils.ValidateAndParseToken(j.secret, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	// Zero falls back to the cache's default TTL.
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := j.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Error("JWTResolver:Revoke:AddToTokenBlacklist:Error", "error", err)
		return err
	}
	logger.Info("JWTResolver:Revoke:Success", "user_id", claims.UserID)
	return nil
}
