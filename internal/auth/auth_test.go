package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestMintAndParse(t *testing.T) {
	pair, err := MintTokens(42, "auditor", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	claims, err := ParseTyped(pair.AccessToken, "secret", TokenAccess)
	if err != nil {
		t.Fatalf("ParseTyped(access) error = %v", err)
	}
	if claims.UserID != 42 || claims.Username != "auditor" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ParseTyped(pair.RefreshToken, "secret", TokenAccess); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := ParseTyped(pair.RefreshToken, "secret", TokenRefresh); err != nil {
		t.Errorf("ParseTyped(refresh) error = %v", err)
	}
}

func TestParseClaimsRejects(t *testing.T) {
	pair, _ := MintTokens(1, "a", "secret", -time.Minute, time.Hour)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"expired", pair.AccessToken, "secret"},
		{"wrong secret", pair.RefreshToken, "other"},
		{"garbage", "not-a-token", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseClaims(tt.token, tt.secret); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if hash == "correct horse" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("matching password rejected")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("wrong password accepted")
	}

	other, _ := HashPassword("correct horse", bcrypt.MinCost)
	if other == hash {
		t.Error("hashes should be salted")
	}
}
