package core

import "github.com/google/uuid"

// IDGenerator produces globally unique identifiers.
type IDGenerator func() string

// NewID generates a new unique identifier.
//
// This function creates a UUID-based unique identifier used for clock sync
// markers so that every agent's record of a marker can be correlated with
// the issuer's record.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }
