package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sablebot/sable/internal/platform/apperr"
	"github.com/sablebot/sable/internal/platform/dberr"
	"github.com/sablebot/sable/pkg/querybuild"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the tag as a single atomic statement. Two callers racing on
// the same name in the same guild both reach the unique expression index on
// (guild_id, LOWER(name)); exactly one insert succeeds and the loser observes
// a Conflict.
func (repository *PostgresRepository) Create(ctx context.Context, t *Tag) error {
	const query = `
		INSERT INTO tags (id, user_id, guild_id, name, content)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := repository.db.Exec(ctx, query, t.ID, t.UserID, t.GuildID, t.Name, t.Content)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Duplicate tag name provided.")
		}
		return dberr.Wrap(err, "create_tag")
	}

	return nil
}

// FindByGuild assembles the predicate from the present filters and runs one
// query. Row order is the store's natural order; callers get stability within
// a single query and nothing more.
func (repository *PostgresRepository) FindByGuild(ctx context.Context, guildID int64, filter Filter) ([]Tag, error) {
	predicates := []string{"guild_id = "}
	args := []any{guildID}

	if filter.ExactName != "" {
		predicates = append(predicates, "LOWER(name) = ")
		args = append(args, strings.ToLower(filter.ExactName))
	}

	if filter.Substring != "" {
		predicates = append(predicates, "LOWER(name) LIKE ")
		args = append(args, "%"+strings.ToLower(filter.Substring)+"%")
	}

	clause, _ := querybuild.Search(predicates)
	query := fmt.Sprintf(`SELECT id, user_id, name, content FROM tags WHERE %s`, clause)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "find_tags_by_guild")
	}
	defer rows.Close()

	return scanTags(rows)
}

// FindByOwner lists the tags a member owns within a guild.
func (repository *PostgresRepository) FindByOwner(ctx context.Context, guildID, ownerID int64) ([]Tag, error) {
	const query = `
		SELECT id, user_id, name, content
		FROM tags
		WHERE guild_id = $1 AND user_id = $2`

	rows, err := repository.db.Query(ctx, query, guildID, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "find_tags_by_owner")
	}
	defer rows.Close()

	return scanTags(rows)
}

// Update applies the non-nil patch fields via the assignment builder, then
// continues the statement with the guild/id scope using the next free
// parameter index. The updated row is returned in full.
func (repository *PostgresRepository) Update(ctx context.Context, guildID, tagID int64, patch Patch) (*Tag, error) {
	var columns []string
	var args []any

	if patch.OwnerID != nil {
		columns = append(columns, "user_id")
		args = append(args, *patch.OwnerID)
	}

	if patch.Name != nil {
		columns = append(columns, "name")
		args = append(args, *patch.Name)
	}

	if patch.Content != nil {
		columns = append(columns, "content")
		args = append(args, *patch.Content)
	}

	clause, next := querybuild.Update(columns)
	query := fmt.Sprintf(`
		UPDATE tags
		SET %s
		WHERE guild_id = $%d AND id = $%d
		RETURNING id, guild_id, user_id, name, content`,
		clause, next, next+1)
	args = append(args, guildID, tagID)

	t := &Tag{}
	err := repository.db.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.GuildID, &t.UserID, &t.Name, &t.Content,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Tag")
		}
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Duplicate tag name provided.")
		}
		return nil, dberr.Wrap(err, "update_tag")
	}

	return t, nil
}

// Delete removes the row scoped by guild and id and reports the affected count.
func (repository *PostgresRepository) Delete(ctx context.Context, guildID, tagID int64) (int64, error) {
	const query = `DELETE FROM tags WHERE guild_id = $1 AND id = $2`

	commandTag, err := repository.db.Exec(ctx, query, guildID, tagID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_tag")
	}

	return commandTag.RowsAffected(), nil
}

// scanTags drains rows into a slice. The guild id is not part of the list wire
// format, so it is left zero here.
func scanTags(rows pgx.Rows) ([]Tag, error) {
	tags := make([]Tag, 0)

	for rows.Next() {
		t := Tag{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Content); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_tags")
	}

	return tags, nil
}
