package user

import "context"

// Directory lazily registers users seen for the first time.
//
// Ensure is called before any operation that introduces a new owner reference
// (tag creation, ownership transfer) so the tags table's user_id reference
// always resolves.
type Directory interface {
	Ensure(ctx context.Context, u User) error
}
