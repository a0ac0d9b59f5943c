package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestBuildAndParseJWT(t *testing.T) {
	secret := []byte("test-secret-min-32-chars-long!!!!")
	userID := "0b6f1c3e-8f5e-4a43-9d7a-0e8d2f3c1a11"
	tok, exp, err := BuildJWT(secret, userID, "doctora@iutepal.edu.ve", time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Fatalf("expiry too early: %v", exp)
	}
	claims, err := ParseJWT(secret, tok)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != userID || claims.Email != "doctora@iutepal.edu.ve" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tok, _, err := BuildJWT([]byte("secret-one-min-32-chars-long!!!!!"), "u", "e", time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT([]byte("secret-two-min-32-chars-long!!!!!"), tok); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	secret := []byte("test-secret-min-32-chars-long!!!!")
	tok, _, err := BuildJWT(secret, "u", "e", -time.Minute)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT(secret, tok); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestParseJWT_RejectsNoneAlg(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseJWT([]byte("whatever-secret-min-32-chars!!!!!"), tok); err == nil {
		t.Fatal("alg none must be rejected")
	}
}
