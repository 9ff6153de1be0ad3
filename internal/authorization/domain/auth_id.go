// Package domain defines the core domain models and errors for single-use authorizations.
// An authorization is identified by a fixed-width AuthID and can be consumed exactly once
// per AuthorizationManager; the consumption ledger is the set of Consumption records.
package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// AuthIDSize is the width in bytes of an authorization identifier.
const AuthIDSize = 32

// AuthID is an opaque fixed-width identifier naming one authorization claim.
type AuthID [AuthIDSize]byte

// HashAuthID derives an AuthID as the Keccak-256 digest of label.
func HashAuthID(label string) AuthID {
	var id AuthID
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(label))
	copy(id[:], h.Sum(nil))
	return id
}

// ParseAuthID decodes a hex AuthID, with or without a 0x prefix.
func ParseAuthID(s string) (AuthID, error) {
	var id AuthID

	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil || len(raw) != AuthIDSize {
		return id, ErrInvalidAuthID
	}

	copy(id[:], raw)
	return id, nil
}

// AuthIDFromBytes copies a raw 32-byte value into an AuthID.
func AuthIDFromBytes(b []byte) (AuthID, error) {
	var id AuthID
	if len(b) != AuthIDSize {
		return id, ErrInvalidAuthID
	}
	copy(id[:], b)
	return id, nil
}

// String returns the 0x-prefixed lowercase hex form.
func (a AuthID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Bytes returns a copy of the identifier as a slice.
func (a AuthID) Bytes() []byte {
	b := make([]byte, AuthIDSize)
	copy(b, a[:])
	return b
}

// IsZero reports whether the identifier is all zeros.
func (a AuthID) IsZero() bool {
	return a == AuthID{}
}
