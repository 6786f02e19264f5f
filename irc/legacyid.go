package irc

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// Older archives stored message UUIDs in a compact form: the 16 raw bytes
// encoded with the unpadded URL-safe base64 alphabet (22 characters instead
// of 36). New output always uses the canonical dashed form; both forms are
// accepted on read.

// EncodeLegacyID converts a canonical 36-character UUID string to its compact
// encoding. Anything that is not a canonical UUID is rejected.
func EncodeLegacyID(id string) (string, error) {
	if len(id) != 36 {
		return "", fmt.Errorf("not a canonical uuid: %q", id)
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("not a canonical uuid: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(u[:]), nil
}

// DecodeLegacyID converts a compact encoding back to the canonical dashed
// UUID form.
func DecodeLegacyID(s string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decode compact id %q: %w", s, err)
	}
	u, err := uuid.FromBytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode compact id %q: %w", s, err)
	}
	return u.String(), nil
}
