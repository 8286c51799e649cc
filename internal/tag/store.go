package tag

import "context"

// Filter narrows a guild-scoped tag search. The zero value lists every tag in
// the guild. ExactName and Substring are mutually exclusive; the service
// rejects requests carrying both before the store is reached.
type Filter struct {
	// ExactName matches the whole name, case-insensitively.
	ExactName string
	// Substring matches anywhere in the name, case-insensitively.
	Substring string
}

// Patch is the non-empty subset of mutable tag fields to apply.
// Nil fields are left untouched.
type Patch struct {
	OwnerID *int64
	Name    *string
	Content *string
}

// Repository owns tag persistence.
//
// Implementations stay mechanical: uniqueness is the database's job (a single
// atomic insert, never check-then-insert), and empty result sets are returned
// as empty slices for the service layer to interpret.
type Repository interface {
	Create(ctx context.Context, t *Tag) error
	FindByGuild(ctx context.Context, guildID int64, filter Filter) ([]Tag, error)
	FindByOwner(ctx context.Context, guildID, ownerID int64) ([]Tag, error)
	Update(ctx context.Context, guildID, tagID int64, patch Patch) (*Tag, error)
	// Delete removes the row scoped by guild and id, reporting how many rows
	// were affected.
	Delete(ctx context.Context, guildID, tagID int64) (int64, error)
}
