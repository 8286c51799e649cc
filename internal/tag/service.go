package tag

import (
	"context"
	"log/slog"

	"github.com/sablebot/sable/internal/platform/apperr"
	"github.com/sablebot/sable/internal/platform/constants"
	"github.com/sablebot/sable/internal/platform/validate"
	"github.com/sablebot/sable/internal/user"
	"github.com/sablebot/sable/pkg/snowflake"
)

// Service orchestrates tag operations: input validation (always before any
// store access), owner-directory upserts, identifier assignment, and mapping
// empty result sets to NotFound.
type Service struct {
	repo   Repository
	users  user.Directory
	ids    *snowflake.Generator
	logger *slog.Logger
}

func NewService(repo Repository, users user.Directory, ids *snowflake.Generator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		ids:    ids,
		logger: logger,
	}
}

// CreateInput is the body of a tag creation request.
type CreateInput struct {
	User    *user.User `json:"user"`
	Name    string     `json:"name"`
	Content string     `json:"content"`
}

// UpdateInput is the body of a partial update. Nil fields are left unchanged;
// at least one must be present.
type UpdateInput struct {
	User    *user.User `json:"user"`
	Name    *string    `json:"name"`
	Content *string    `json:"content"`
}

// Create validates the input, registers the owner in the user directory, and
// inserts the tag under a freshly minted identifier.
//
// The owner upsert and the tag insert are deliberately not one transaction: if
// the insert fails, the user row is at most redundantly present, which breaks
// no invariant.
func (service *Service) Create(ctx context.Context, guildID int64, input CreateInput) (int64, error) {
	v := &validate.Validator{}
	v.Custom("user", input.User == nil, `Missing "user" JSON field`)
	if input.User != nil {
		v.Positive("user.id", input.User.ID)
	}
	v.Required("name", input.Name).MaxLen("name", input.Name, constants.TagNameMaxLen)
	v.Required("content", input.Content).MaxLen("content", input.Content, constants.TagContentMaxLen)
	if err := v.Err(); err != nil {
		return 0, err
	}

	if err := service.users.Ensure(ctx, *input.User); err != nil {
		return 0, err
	}

	t := &Tag{
		ID:      service.ids.Next(),
		GuildID: guildID,
		UserID:  input.User.ID,
		Name:    input.Name,
		Content: input.Content,
	}

	if err := service.repo.Create(ctx, t); err != nil {
		return 0, err
	}

	service.logger.InfoContext(ctx, "tag_created",
		slog.Int64("guild_id", guildID),
		slog.Int64("tag_id", t.ID),
		slog.Int64("owner_id", t.UserID),
	)

	return t.ID, nil
}

// Search lists a guild's tags, optionally filtered by exact name or by
// substring. The two filters are mutually exclusive; an empty result is
// NotFound.
func (service *Service) Search(ctx context.Context, guildID int64, exactName, substring string) ([]Tag, error) {
	if exactName != "" && substring != "" {
		return nil, apperr.ValidationError(`"name" and "query" query params are mutually exclusive.`)
	}

	tags, err := service.repo.FindByGuild(ctx, guildID, Filter{ExactName: exactName, Substring: substring})
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, apperr.NotFound("Tag")
	}

	return tags, nil
}

// MemberTags lists the tags owned by one member of a guild.
func (service *Service) MemberTags(ctx context.Context, guildID, ownerID int64) ([]Tag, error) {
	tags, err := service.repo.FindByOwner(ctx, guildID, ownerID)
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, apperr.NotFound("Tag")
	}

	return tags, nil
}

// Update applies a non-empty subset of {owner, name, content} to the tag
// scoped by guild and id, returning the updated row. A new owner is upserted
// into the user directory before the tag row is touched.
func (service *Service) Update(ctx context.Context, guildID, tagID int64, input UpdateInput) (*Tag, error) {
	if input.User == nil && input.Name == nil && input.Content == nil {
		return nil, apperr.ValidationError(`Requires at least one of "user", "name" or "content" JSON field.`)
	}

	v := &validate.Validator{}
	if input.User != nil {
		v.Positive("user.id", input.User.ID)
	}
	if input.Name != nil {
		v.Required("name", *input.Name).MaxLen("name", *input.Name, constants.TagNameMaxLen)
	}
	if input.Content != nil {
		v.Required("content", *input.Content).MaxLen("content", *input.Content, constants.TagContentMaxLen)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	patch := Patch{Name: input.Name, Content: input.Content}

	if input.User != nil {
		if err := service.users.Ensure(ctx, *input.User); err != nil {
			return nil, err
		}
		patch.OwnerID = &input.User.ID
	}

	updated, err := service.repo.Update(ctx, guildID, tagID, patch)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "tag_updated",
		slog.Int64("guild_id", guildID),
		slog.Int64("tag_id", tagID),
	)

	return updated, nil
}

// Delete removes the tag scoped by guild and id. Deleting an already deleted
// tag reports NotFound and has no side effect.
func (service *Service) Delete(ctx context.Context, guildID, tagID int64) error {
	affected, err := service.repo.Delete(ctx, guildID, tagID)
	if err != nil {
		return err
	}

	if affected == 0 {
		return apperr.NotFound("Tag")
	}

	service.logger.InfoContext(ctx, "tag_deleted",
		slog.Int64("guild_id", guildID),
		slog.Int64("tag_id", tagID),
	)

	return nil
}
