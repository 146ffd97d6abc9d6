// Package did provides parsing and validation for Decentralized
// Identifiers as used by Soul Protocol registries.
//
// DID format: did:<method>:<method-specific-id>
//
// Examples:
//
//	did:soul:7f3a9c1b2d4e        (registry-assigned Soul identity)
//	did:web:registry.example.com (issuer identified by domain)
//
// The method name is lowercase alphanumeric. The method-specific id may
// itself contain colons (e.g. did:soul:eu:7f3a9c1b) but never '/', '?',
// or '#', which begin DID-URL path, query, and fragment parts that this
// package does not accept.
package did

import (
	"fmt"
	"regexp"
	"strings"
)

// did = "did:" method-name ":" method-specific-id, with colon-separated
// sub-segments allowed inside the method-specific-id.
var didRegex = regexp.MustCompile(`^did:([a-z0-9]+):([^/?#]+)$`)

// DID represents a parsed Decentralized Identifier.
type DID struct {
	Method string // e.g. "soul" — the DID method name
	ID     string // e.g. "7f3a9c1b2d4e" — the method-specific identifier
}

// Parse parses a DID string of the form did:<method>:<id>.
func Parse(raw string) (*DID, error) {
	raw = strings.TrimSpace(raw)
	matches := didRegex.FindStringSubmatch(raw)
	if matches == nil {
		return nil, fmt.Errorf("invalid DID %q: want did:<method>:<id>", raw)
	}
	return &DID{Method: matches[1], ID: matches[2]}, nil
}

// MustParse parses a DID and panics on error. Useful in tests and init blocks.
func MustParse(raw string) *DID {
	d, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// IsValid reports whether raw is a well-formed DID.
func IsValid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// String returns the canonical DID string.
func (d *DID) String() string {
	return fmt.Sprintf("did:%s:%s", d.Method, d.ID)
}
