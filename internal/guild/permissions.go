// Package guild answers the permission questions the authorization gate asks:
// which permission bits does a member hold in a guild, and in particular does
// the member administer it.
//
// The bot keeps the guild_members table in sync from gateway events; this
// service only reads it.
package guild

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sablebot/sable/internal/platform/dberr"
	"github.com/sablebot/sable/pkg/permissions"
)

// Checker resolves a member's permission bitset within a guild.
//
// A user with no membership row resolves to the empty set rather than an
// error; absence of permissions is a normal answer, not a failure.
type Checker interface {
	MemberPermissions(ctx context.Context, guildID, userID int64) (permissions.Set, error)
}

// HasAdministrator reports whether the user holds administrative rights over
// the guild. This is the predicate guarding every tag endpoint.
func HasAdministrator(ctx context.Context, checker Checker, guildID, userID int64) (bool, error) {
	perms, err := checker.MemberPermissions(ctx, guildID, userID)
	if err != nil {
		return false, err
	}
	return perms.Has(permissions.Administrator), nil
}

// PostgresChecker implements [Checker] over the guild_members table.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresChecker creates a new PostgreSQL implementation of the Checker.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

// MemberPermissions returns the stored permission bitset for a guild member.
func (checker *PostgresChecker) MemberPermissions(ctx context.Context, guildID, userID int64) (permissions.Set, error) {
	const query = `
		SELECT permissions
		FROM guild_members
		WHERE guild_id = $1 AND user_id = $2`

	var perms uint64
	err := checker.pool.QueryRow(ctx, query, guildID, userID).Scan(&perms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Not a member: no permissions.
			return 0, nil
		}
		return 0, dberr.Wrap(err, "member_permissions")
	}

	return permissions.Set(perms), nil
}
