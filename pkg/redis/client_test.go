package redis

import "testing"

func TestKeyNamespacing(t *testing.T) {
	c := &Client{}

	if got := c.SessionKey("abc"); got != "u17:session:abc" {
		t.Fatalf("session key %q", got)
	}
	if got := c.RateLimitKey("login:username", "Ayash"); got != "u17:rate_limit:login:username:Ayash" {
		t.Fatalf("rate limit key %q", got)
	}
	if got := c.IdempotencyKey("scope", "key-1"); got != "u17:idempotency:scope:key-1" {
		t.Fatalf("idempotency key %q", got)
	}
	if got := ChangefeedChannel(); got != "u17:changefeed" {
		t.Fatalf("changefeed channel %q", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	c := &Client{}
	if _, err := c.Get(t.Context(), "missing"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := c.PublishChange(t.Context(), "donation"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}
