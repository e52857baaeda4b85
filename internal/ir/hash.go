package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFilter = "druidq/filter/v1"
	DomainQuery  = "druidq/query/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FilterHash computes the content-addressed identity of a serialized filter.
// Two filters hash equal iff their canonical JSON is byte-identical.
func FilterHash(filter IRObject) (string, error) {
	canonical, err := MarshalCanonical(filter)
	if err != nil {
		return "", fmt.Errorf("FilterHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFilter, canonical), nil
}

// QueryHash computes the content-addressed identity of a serialized query.
func QueryHash(query IRObject) (string, error) {
	canonical, err := MarshalCanonical(query)
	if err != nil {
		return "", fmt.Errorf("QueryHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}

// MustFilterHash is like FilterHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFilterHash(filter IRObject) string {
	hash, err := FilterHash(filter)
	if err != nil {
		panic(err)
	}
	return hash
}
