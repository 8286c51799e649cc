// Copyright (c) 2026 Sable. All rights reserved.

// Package permissions models the chat platform's guild permission bitset.
//
// Only the bits the tag system consults are named; Set still round-trips the
// full value so unrelated bits survive storage and caching unchanged.
package permissions

// Set is a guild permission bitfield as reported by the chat platform.
type Set uint64

const (
	// Administrator grants every permission in the guild, including the raw
	// tag management endpoints of this service.
	Administrator Set = 1 << 3

	// ManageMessages is the elevated moderation permission that allows
	// mutating tags owned by other members.
	ManageMessages Set = 1 << 13
)

// Has reports whether every bit of wanted is present in the set.
// Administrator implies all other permissions.
func (s Set) Has(wanted Set) bool {
	if s&Administrator == Administrator {
		return true
	}
	return s&wanted == wanted
}
