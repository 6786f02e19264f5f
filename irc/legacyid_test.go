package irc

import (
	"strings"
	"testing"
)

func TestLegacyIDRoundTrip(t *testing.T) {
	ids := []string{
		"0f0af21a-2b6e-4f1e-8f06-0a3a0f0a1b2c",
		"00000000-0000-0000-0000-000000000000",
		"ffffffff-ffff-ffff-ffff-ffffffffffff",
	}
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			compact, err := EncodeLegacyID(id)
			if err != nil {
				t.Fatalf("EncodeLegacyID(%q) error: %v", id, err)
			}
			if len(compact) != 22 {
				t.Errorf("compact form %q has length %d, want 22", compact, len(compact))
			}
			if strings.ContainsAny(compact, "+/=") {
				t.Errorf("compact form %q not in unpadded url-safe alphabet", compact)
			}
			back, err := DecodeLegacyID(compact)
			if err != nil {
				t.Fatalf("DecodeLegacyID(%q) error: %v", compact, err)
			}
			if back != id {
				t.Errorf("round trip = %q, want %q", back, id)
			}
		})
	}
}

func TestEncodeLegacyIDRejectsNonUUID(t *testing.T) {
	for _, in := range []string{"", "abc", "not-a-uuid-at-all-but-36-chars-long!", "0f0af21a2b6e4f1e8f060a3a0f0a1b2c"} {
		if _, err := EncodeLegacyID(in); err == nil {
			t.Errorf("EncodeLegacyID(%q) = nil error, want failure", in)
		}
	}
}

func TestDecodeLegacyIDRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "!!!", "AAAA", "this is not base64"} {
		if _, err := DecodeLegacyID(in); err == nil {
			t.Errorf("DecodeLegacyID(%q) = nil error, want failure", in)
		}
	}
}
