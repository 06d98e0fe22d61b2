package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"
)

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestValidateGitHubSignature(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "s3cret", RateLimitPerMin: 60})
	payload := []byte(`{"action":"closed"}`)

	if err := v.ValidateGitHubSignature(payload, signPayload("s3cret", payload)); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}

	if err := v.ValidateGitHubSignature(payload, signPayload("wrong", payload)); err == nil {
		t.Error("signature with wrong secret accepted")
	}

	if err := v.ValidateGitHubSignature(payload, "sha1=deadbeef"); err == nil {
		t.Error("non-sha256 signature accepted")
	}

	if err := v.ValidateGitHubSignature(payload, "sha256=not-hex"); err == nil {
		t.Error("malformed hex accepted")
	}

	if err := v.ValidateGitHubSignature(payload, ""); err == nil {
		t.Error("missing signature accepted")
	}
}

func TestValidateGitHubSignature_NoSecret(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{RateLimitPerMin: 60})
	payload := []byte("x")

	if err := v.ValidateGitHubSignature(payload, signPayload("", payload)); err == nil {
		t.Error("validator without a secret must reject all requests")
	}
}

func TestValidateIPAddress(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{
		Secret:          "s",
		AllowedIPs:      []string{"192.30.252.1", "10.0.0.0/8"},
		RateLimitPerMin: 60,
	})

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		wantOK     bool
	}{
		{"exact match", "192.30.252.1:443", "", true},
		{"cidr match", "10.1.2.3:443", "", true},
		{"not whitelisted", "203.0.113.9:443", "", false},
		{"forwarded-for takes precedence", "203.0.113.9:443", "10.5.5.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/webhook/github", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}

			err := v.ValidateIPAddress(r)
			if tt.wantOK && err != nil {
				t.Errorf("expected allow, got %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected reject")
			}
		})
	}
}

func TestValidateIPAddress_NoWhitelist(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "s", RateLimitPerMin: 60})
	r := httptest.NewRequest("POST", "/webhook/github", nil)
	r.RemoteAddr = "203.0.113.9:443"

	if err := v.ValidateIPAddress(r); err != nil {
		t.Errorf("empty whitelist must allow any source: %v", err)
	}
}

func TestCheckRateLimit(t *testing.T) {
	// 60/min with burst 6; the burst drains before refill matters.
	v := NewSecurityValidator(SecurityConfig{Secret: "s", RateLimitPerMin: 60})

	var rejected bool
	for i := 0; i < 20; i++ {
		if err := v.CheckRateLimit("github"); err != nil {
			rejected = true
			break
		}
	}
	if !rejected {
		t.Error("expected rate limit to trip within 20 immediate requests")
	}

	// A different source key has its own limiter.
	if err := v.CheckRateLimit("replay"); err != nil {
		t.Errorf("independent source must not be limited: %v", err)
	}
}
