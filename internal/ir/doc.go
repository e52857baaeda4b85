// Package ir provides the JSON value model for Druid query documents.
//
// Every filter node, extraction function, dimension spec and query in druidq
// serializes to an IRObject rather than to ad-hoc maps. This keeps output
// deterministic: object keys are always emitted in RFC 8785 order, so the
// same filter tree produces byte-identical JSON across runs and golden files
// stay stable.
//
// This package contains value types and encoders only. All other internal
// packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - IRValue is sealed; only the types in this package implement it
//   - MarshalJSON is deterministic but not canonical
//   - MarshalCanonical (NFC, no HTML escaping) is used for content hashes
package ir
