package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-client"

	refreshKeyPrefix   = "refresh:"
	blacklistKeyPrefix = "blacklist:"
)

var errTokenInvalid = errors.New("invalid or expired token")

// tokenService issues and validates the session token pair: a short-lived
// HS256 access JWT and an opaque refresh token living in Redis. Refresh
// tokens rotate on every use; presenting a rotated token fails.
type tokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	redis      *redis.Client
}

func newTokenService(cfg *config.Config, redisClient *redis.Client) *tokenService {
	accessTTL := time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := time.Duration(cfg.RefreshTokenTTLHours) * time.Hour
	if refreshTTL <= 0 {
		refreshTTL = 168 * time.Hour
	}
	return &tokenService{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		redis:      redisClient,
	}
}

// tokenPair is what login, register and refresh hand back to the client.
type tokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// accessClaims is what validation extracts from a verified access token.
type accessClaims struct {
	UserID   uint
	Username string
	Role     models.UserRole
	JTI      string
	Expiry   time.Time
}

// Issue mints an access/refresh pair for the user and stores the refresh
// token in Redis.
func (t *tokenService) Issue(ctx context.Context, user *models.User) (*tokenPair, error) {
	if len(t.secret) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"role":     string(user.Role),
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(t.accessTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if t.redis == nil {
		return nil, fmt.Errorf("refresh token store unavailable")
	}
	userID := strconv.FormatUint(uint64(user.ID), 10)
	if err := t.redis.Set(ctx, refreshKeyPrefix+refresh, userID, t.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate consumes a refresh token and returns the owning user ID. The old
// token is deleted atomically with the lookup, so a second presentation of
// the same token fails.
func (t *tokenService) Rotate(ctx context.Context, refreshToken string) (uint, error) {
	if t.redis == nil {
		return 0, errTokenInvalid
	}
	userIDStr, err := t.redis.GetDel(ctx, refreshKeyPrefix+refreshToken).Result()
	if err != nil {
		return 0, errTokenInvalid
	}
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return 0, errTokenInvalid
	}
	return uint(userID), nil
}

// Revoke deletes a refresh token (logout).
func (t *tokenService) Revoke(ctx context.Context, refreshToken string) {
	if t.redis == nil || refreshToken == "" {
		return
	}
	t.redis.Del(ctx, refreshKeyPrefix+refreshToken)
}

// Blacklist marks an access token's jti as revoked until its natural expiry.
func (t *tokenService) Blacklist(ctx context.Context, claims *accessClaims) {
	if t.redis == nil || claims.JTI == "" {
		return
	}
	ttl := time.Until(claims.Expiry)
	if ttl <= 0 {
		return
	}
	t.redis.Set(ctx, blacklistKeyPrefix+claims.JTI, "1", ttl)
}

// Validate parses and verifies an access token, including the jti
// blacklist check.
func (t *tokenService) Validate(ctx context.Context, tokenString string) (*accessClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errTokenInvalid
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return nil, errTokenInvalid
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return nil, errTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errTokenInvalid
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, errTokenInvalid
	}

	out := &accessClaims{UserID: uint(userID)}
	if username, uok := claims["username"].(string); uok {
		out.Username = username
	}
	if role, rok := claims["role"].(string); rok {
		out.Role = models.UserRole(role)
	}
	if jti, jok := claims["jti"].(string); jok {
		out.JTI = jti
	}
	if exp, eok := claims["exp"].(float64); eok {
		out.Expiry = time.Unix(int64(exp), 0)
	}

	if out.JTI != "" && t.redis != nil {
		blacklisted, err := t.redis.Exists(ctx, blacklistKeyPrefix+out.JTI).Result()
		if err == nil && blacklisted > 0 {
			return nil, errTokenInvalid
		}
	}

	return out, nil
}
