package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(models.User{ID: 7, Username: "nurse", Role: "user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, claims, err := TokenClaims("Bearer " + token)
	if err != nil {
		t.Fatalf("expected token to be valid: %v", err)
	}
	if claims["sub"] != float64(7) || claims["username"] != "nurse" || claims["role"] != "user" {
		t.Errorf("unexpected claims %v", claims)
	}
}

func TestTokenClaimsRejects(t *testing.T) {
	valid, _ := GenerateToken(models.User{ID: 1, Username: "admin", Role: "admin"})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	expiredStr, _ := expired.SignedString(jwtSecret)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 1})
	foreignStr, _ := foreign.SignedString([]byte("another-key"))

	for name, header := range map[string]string{
		"no bearer prefix": valid,
		"expired":          "Bearer " + expiredStr,
		"wrong key":        "Bearer " + foreignStr,
		"garbage":          "Bearer abc.def.ghi",
	} {
		if _, _, err := TokenClaims(header); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
