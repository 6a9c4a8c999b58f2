package internal

import "testing"

func TestNewSessionIDRoundTrip(t *testing.T) {
	sid, err := NewSessionID()
	if err != nil {
		t.Fatalf("new session id: %v", err)
	}

	encoded := sid.String()
	if encoded == "" {
		t.Fatal("expected non-empty encoded session id")
	}

	parsed, err := ParseSessionID(encoded)
	if err != nil {
		t.Fatalf("parse session id: %v", err)
	}
	if parsed != sid {
		t.Fatalf("round trip mismatch: %v != %v", parsed, sid)
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 256; i++ {
		sid, err := NewSessionID()
		if err != nil {
			t.Fatalf("new session id: %v", err)
		}
		key := sid.String()
		if seen[key] {
			t.Fatalf("duplicate session id after %d draws: %s", i, key)
		}
		seen[key] = true
	}
}

func TestParseSessionIDRejectsBadInput(t *testing.T) {
	if _, err := ParseSessionID("not base64url!!"); err == nil {
		t.Fatal("expected invalid encoding to be rejected")
	}
	if _, err := ParseSessionID("c2hvcnQ"); err == nil {
		t.Fatal("expected wrong-size payload to be rejected")
	}
}
