package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

const issuer = "brightorion"

// Claims carried by both access and refresh tokens. Type distinguishes
// them so a refresh token can never pass as an access token.
type Claims struct {
	UserID   string `json:"user_id"`
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// GenerateTokenPair mints an access/refresh pair for the user.
func GenerateTokenPair(cfg *config.Config, u *models.User) (*TokenPair, error) {
	access, err := sign(cfg.JWTSecret, u, "access", cfg.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := sign(cfg.JWTRefreshSecret, u, "refresh", cfg.JWTRefreshExpiry)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

func sign(secret string, u *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		MemberID: u.MemberID,
		Email:    u.Email,
		Role:     u.Role,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parse(secret, tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAuth, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", models.ErrAuth)
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("%w: wrong token type", models.ErrAuth)
	}
	return claims, nil
}

func ValidateAccessToken(cfg *config.Config, tokenString string) (*Claims, error) {
	return parse(cfg.JWTSecret, tokenString, "access")
}

func ValidateRefreshToken(cfg *config.Config, tokenString string) (*Claims, error) {
	return parse(cfg.JWTRefreshSecret, tokenString, "refresh")
}
