// Copyright (c) 2026 Sable. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, input bounds, and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Tag Bounds: Length limits enforced on user-supplied tag fields.
  - Security: JWT issuer and header names.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "sable-api"
	AppVersion = "0.4.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Tag Bounds
//
// The bot validates these before issuing a request; the store re-checks them
// as a precondition so oversized input can never reach the table.

const (
	// TagNameMaxLen is the maximum tag name length in Unicode characters.
	TagNameMaxLen = 100

	// TagContentMaxLen is the maximum tag content length in Unicode characters.
	TagContentMaxLen = 1998
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim expected in caller JWTs.
	AuthIssuer = "sable.chat"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixGuildPerms caches per-member guild permission bitsets.
	RedisPrefixGuildPerms = "guild:perms:"
)

// # Cache TTLs

const (
	// GuildPermsTTL bounds how stale a cached permission check may be after a
	// role change on the chat platform.
	GuildPermsTTL = 60 * time.Second
)
