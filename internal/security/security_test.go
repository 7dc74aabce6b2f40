package security

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "pw123456" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "pw123456") {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword(hash, "wrongpw") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestMintAndParseUserToken(t *testing.T) {
	token, err := MintUserToken("secret", 42, "ana@x.com", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseUserToken("secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected uid=42, got %d", claims.UserID)
	}
	if claims.Email != "ana@x.com" {
		t.Fatalf("expected email=ana@x.com, got %q", claims.Email)
	}
}

func TestParseUserToken_WrongSecret(t *testing.T) {
	token, err := MintUserToken("secret", 42, "ana@x.com", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if _, err := ParseUserToken("other-secret", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseUserToken_Expired(t *testing.T) {
	token, err := MintUserToken("secret", 42, "ana@x.com", -time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if _, err := ParseUserToken("secret", token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseUserToken_Garbage(t *testing.T) {
	if _, err := ParseUserToken("secret", "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGenerateOTPCode_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("generate otp: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, errParse := strconv.Atoi(code)
		if errParse != nil {
			t.Fatalf("non-numeric code %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}
