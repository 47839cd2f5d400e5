package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/requestdata"
)

// AuthService verifies identity-provider session tokens. The gate runs on
// every protected request; nothing downstream executes when it fails.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log             *logger.Logger
	keys            jwk.Set
	authorizedParty string
}

// NewAuthService builds a verifier against the provider's JWKS endpoint.
// The key set is cached and refreshed in the background, so token checks do
// not hit the network on every request.
func NewAuthService(ctx context.Context, log *logger.Logger, jwksURL, authorizedParty string) (AuthService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if jwksURL == "" {
		return nil, fmt.Errorf("missing JWKS URL")
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("register JWKS endpoint: %w", err)
	}
	if _, err := cache.Refresh(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("fetch provider public keys: %w", err)
	}

	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:             serviceLog,
		keys:            jwk.NewCachedSet(cache, jwksURL),
		authorizedParty: authorizedParty,
	}, nil
}

// NewAuthServiceWithKeySet wires a fixed key set. Used when the caller
// already holds the provider keys (and by tests).
func NewAuthServiceWithKeySet(log *logger.Logger, keys jwk.Set, authorizedParty string) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:             serviceLog,
		keys:            keys,
		authorizedParty: authorizedParty,
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	// Allow a small clock skew between us and the provider.
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKeySet(as.keys),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		as.log.Debug("Session token rejected", "error", err)
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	if as.authorizedParty != "" {
		if azp, ok := token.Get("azp"); ok {
			if azpStr, _ := azp.(string); azpStr != "" && azpStr != as.authorizedParty {
				as.log.Warn("Session token from unauthorized party", "azp", azpStr)
				return nil, fmt.Errorf("token issued for unauthorized party")
			}
		}
	}

	userID := token.Subject()
	if userID == "" {
		return nil, fmt.Errorf("session token missing subject")
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}
