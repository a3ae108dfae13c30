package main

import (
	"strings"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("pilot1", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatal("register should return id and token")
	}

	loginID, loginToken, err := auth.Login("pilot1", "secret", "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginID != id || loginToken == "" {
		t.Errorf("login mismatch: id=%d", loginID)
	}

	if _, _, err := auth.Login("pilot1", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password must fail")
	}
	if _, _, err := auth.Login("ghost", "secret", "1.2.3.4"); err == nil {
		t.Error("unknown account must fail")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.Register("x", "secret"); err == nil {
		t.Error("one-char username should be rejected")
	}
	if _, _, err := auth.Register("pilot", "abc"); err == nil {
		t.Error("short password should be rejected")
	}
	if _, _, err := auth.Register(strings.Repeat("a", maxUsernameLen+1), "secret"); err == nil {
		t.Error("oversized username should be rejected")
	}

	if _, _, err := auth.Register("dupe", "secret"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := auth.Register("dupe", "secret"); err == nil {
		t.Error("duplicate username should be rejected")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("pilot2", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	gotID, gotName, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if gotID != id || gotName != "pilot2" {
		t.Errorf("token claims mismatch: id=%d name=%s", gotID, gotName)
	}

	if _, _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token should be rejected")
	}
}

func TestJWTSecretPersists(t *testing.T) {
	db := openTestDB(t)
	first := NewAuth(db)
	_, token, err := first.Register("pilot3", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Simulated restart: a fresh Auth over the same database must
	// accept tokens issued before
	second := NewAuth(db)
	if _, _, err := second.ValidateToken(token); err != nil {
		t.Errorf("token should survive a restart: %v", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	auth.Register("pilot4", "secret")

	var lastErr error
	for i := 0; i < maxLoginAttempts+1; i++ {
		_, _, lastErr = auth.Login("pilot4", "wrong", "9.9.9.9")
	}
	if lastErr == nil || !strings.Contains(lastErr.Error(), "too many") {
		t.Errorf("expected rate limit error, got %v", lastErr)
	}

	// A different IP is unaffected
	if _, _, err := auth.Login("pilot4", "secret", "8.8.8.8"); err != nil {
		t.Errorf("other IP should still log in: %v", err)
	}
}

func TestGenerateGuestName(t *testing.T) {
	name := GenerateGuestName()
	if !strings.HasPrefix(name, "Pilot_") {
		t.Errorf("unexpected guest name %q", name)
	}
	if len(name) != len("Pilot_")+6 {
		t.Errorf("guest name suffix should be 6 hex chars: %q", name)
	}
}
