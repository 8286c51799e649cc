package user

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sablebot/sable/internal/platform/dberr"
)

// PostgresDirectory implements [Directory] using pgx.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new PostgreSQL implementation of the Directory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// Ensure upserts a user row keyed by the chat-platform id.
//
// The write is a single atomic statement: concurrent Ensure calls for the same
// id cannot conflict, the later one simply refreshes the display fields.
func (directory *PostgresDirectory) Ensure(ctx context.Context, u User) error {
	const query = `
		INSERT INTO users (id, username, discriminator, avatar)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    discriminator = EXCLUDED.discriminator,
		    avatar = EXCLUDED.avatar`

	_, err := directory.pool.Exec(ctx, query, u.ID, u.Username, u.Discriminator, u.Avatar)
	if err != nil {
		return dberr.Wrap(err, "ensure_user")
	}

	return nil
}
