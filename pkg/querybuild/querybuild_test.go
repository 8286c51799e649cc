// Copyright (c) 2026 Sable. All rights reserved.

package querybuild_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sablebot/sable/pkg/querybuild"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		predicates []string
		wantClause string
		wantNext   int
	}{
		{
			name:       "guild_only",
			predicates: []string{"guild_id = "},
			wantClause: "guild_id = $1",
			wantNext:   2,
		},
		{
			name:       "guild_and_exact_name",
			predicates: []string{"guild_id = ", "LOWER(name) = "},
			wantClause: "guild_id = $1 AND LOWER(name) = $2",
			wantNext:   3,
		},
		{
			name:       "guild_and_substring",
			predicates: []string{"guild_id = ", "LOWER(name) LIKE "},
			wantClause: "guild_id = $1 AND LOWER(name) LIKE $2",
			wantNext:   3,
		},
		{
			name:       "guild_and_owner",
			predicates: []string{"guild_id = ", "user_id = "},
			wantClause: "guild_id = $1 AND user_id = $2",
			wantNext:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, next := querybuild.Search(tt.predicates)

			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name       string
		columns    []string
		wantClause string
		wantNext   int
	}{
		{
			name:       "single_field",
			columns:    []string{"content"},
			wantClause: "content = $1",
			wantNext:   2,
		},
		{
			name:       "two_fields",
			columns:    []string{"name", "content"},
			wantClause: "name = $1, content = $2",
			wantNext:   3,
		},
		{
			name:       "all_fields",
			columns:    []string{"user_id", "name", "content"},
			wantClause: "user_id = $1, name = $2, content = $3",
			wantNext:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, next := querybuild.Update(tt.columns)

			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

// TestUpdate_NextIndexContinuation documents the intended composition: the
// returned index seeds the WHERE clause of a partial update without colliding
// with the assignment placeholders.
func TestUpdate_NextIndexContinuation(t *testing.T) {
	clause, next := querybuild.Update([]string{"user_id", "content"})

	statement := fmt.Sprintf("UPDATE tags SET %s WHERE guild_id = $%d AND id = $%d", clause, next, next+1)
	assert.Equal(t, "UPDATE tags SET user_id = $1, content = $2 WHERE guild_id = $3 AND id = $4", statement)
}
