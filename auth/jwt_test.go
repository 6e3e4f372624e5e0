package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       "user-1",
		MemberID: "BO123456",
		Email:    "ada@example.com",
		Role:     models.RoleUser,
	}
}

func TestTokenPair(t *testing.T) {
	cfg := testConfig()

	t.Run("access token round trip", func(t *testing.T) {
		pair, err := GenerateTokenPair(cfg, testUser())
		if err != nil {
			t.Fatalf("GenerateTokenPair: %v", err)
		}

		claims, err := ValidateAccessToken(cfg, pair.AccessToken)
		if err != nil {
			t.Fatalf("ValidateAccessToken: %v", err)
		}
		if claims.UserID != "user-1" || claims.MemberID != "BO123456" || claims.Role != models.RoleUser {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		pair, err := GenerateTokenPair(cfg, testUser())
		if err != nil {
			t.Fatal(err)
		}
		claims, err := ValidateRefreshToken(cfg, pair.RefreshToken)
		if err != nil {
			t.Fatalf("ValidateRefreshToken: %v", err)
		}
		if claims.Type != "refresh" {
			t.Errorf("type = %q, want refresh", claims.Type)
		}
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		pair, err := GenerateTokenPair(cfg, testUser())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ValidateAccessToken(cfg, pair.RefreshToken); !errors.Is(err, models.ErrAuth) {
			t.Fatalf("err = %v, want ErrAuth", err)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		pair, err := GenerateTokenPair(cfg, testUser())
		if err != nil {
			t.Fatal(err)
		}
		other := testConfig()
		other.JWTSecret = "different"
		if _, err := ValidateAccessToken(other, pair.AccessToken); !errors.Is(err, models.ErrAuth) {
			t.Fatalf("err = %v, want ErrAuth", err)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := ValidateAccessToken(cfg, "not.a.token"); !errors.Is(err, models.ErrAuth) {
			t.Fatalf("err = %v, want ErrAuth", err)
		}
	})
}
