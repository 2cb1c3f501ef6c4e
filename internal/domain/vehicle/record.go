// Package vehicle holds the vehicle identity model and the plate resolution
// logic built on top of pluggable lookup providers.
package vehicle

import (
	"strings"
	"time"
)

// Record is a vehicle identity as resolved from a license plate.
type Record struct {
	Plate     string    `json:"plate"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      string    `json:"year,omitempty"`
	OwnerName string    `json:"owner_name,omitempty"`
	OwnerRUT  string    `json:"owner_rut,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Lookup is the outcome of a single plate lookup, whether it succeeded or
// not.  Found distinguishes "vehicle identified" from "provider answered but
// the plate is unknown"; Reason carries the latter's explanation.
type Lookup struct {
	Found   bool    `json:"found"`
	Vehicle *Record `json:"vehicle,omitempty"`
	Source  string  `json:"source,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// NormalizePlate canonicalizes a raw plate string: surrounding whitespace is
// stripped and letters are uppercased.  No structural validation happens
// here; Chilean plates come in several formats and providers are the
// authority on what resolves.
func NormalizePlate(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
