package utils

import (
	"errors"
	"fmt"
	"time"

	appErrors "user-auth-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
	PurposeReset   = "password_reset"
)

type Claims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// TokenConfig carries the signing keys and lifetimes for each token kind.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	ResetSecret   string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

type TokenOption func(*TokenIssuer)

// WithTokenClock overrides the clock used for issuing and verifying.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

func NewTokenIssuer(cfg TokenConfig, opts ...TokenOption) *TokenIssuer {
	t := &TokenIssuer{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IssuePair signs an access and a refresh token carrying userID and email.
func (t *TokenIssuer) IssuePair(userID, email string) (*TokenPair, error) {
	now := t.now()

	access, err := t.sign(userID, email, PurposeAccess, t.cfg.AccessSecret, now, t.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := t.sign(userID, email, PurposeRefresh, t.cfg.RefreshSecret, now, t.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(t.cfg.AccessTTL).Unix(),
	}, nil
}

// IssueResetToken signs a token that authorizes a single password change.
func (t *TokenIssuer) IssueResetToken(userID string) (string, error) {
	token, err := t.sign(userID, "", PurposeReset, t.cfg.ResetSecret, t.now(), t.cfg.ResetTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return token, nil
}

func (t *TokenIssuer) ParseAccessToken(token string) (*Claims, error) {
	return t.parse(token, t.cfg.AccessSecret, PurposeAccess)
}

func (t *TokenIssuer) ParseRefreshToken(token string) (*Claims, error) {
	return t.parse(token, t.cfg.RefreshSecret, PurposeRefresh)
}

func (t *TokenIssuer) ParseResetToken(token string) (*Claims, error) {
	return t.parse(token, t.cfg.ResetSecret, PurposeReset)
}

func (t *TokenIssuer) sign(userID, email, purpose, secret string, now time.Time, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is empty")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString([]byte(secret))
}

func (t *TokenIssuer) parse(tokenString, secret, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.ErrTokenExpired
		}
		return nil, appErrors.ErrTokenInvalid
	}

	if !token.Valid || claims.Purpose != purpose || claims.UserID == "" {
		return nil, appErrors.ErrTokenInvalid
	}

	return claims, nil
}
