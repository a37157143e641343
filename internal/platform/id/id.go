// Package id provides utilities for generating URL-safe identifiers.
//
// Identifiers are generated from random (version 4) UUIDs encoded as base32
// (RFC 4648) with no padding. The resulting strings are 26 characters long,
// lowercase, and safe for use in URLs, file paths and storage keys.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID generates a URL-safe identifier using UUIDv4 bytes encoded as base32.
func NewID() (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(raw[:])), nil
}

// Short returns the first n characters of an identifier, upper-cased for
// display in human-facing references. n is clamped to [1, len(full)].
func Short(full string, n int) string {
	if n <= 0 {
		n = 1
	}
	if n > len(full) {
		n = len(full)
	}
	return strings.ToUpper(full[:n])
}
