// Copyright (c) 2026 Sable. All rights reserved.

/*
Package querybuild assembles parametrized SQL fragments from optional fields.

It produces predicate and assignment clauses with sequential positional
placeholders ($1, $2, ...) plus the next unused parameter index, so callers can
append further conditions without placeholder collisions. Values are always
bound as query arguments; nothing from user input ever enters the clause text.

Both builders are pure string assembly and perform no I/O.
*/
package querybuild

import (
	"fmt"
	"strings"
)

// Search joins the given column expressions into a conjunctive predicate,
// assigning each expression the next positional placeholder.
//
// Each entry must be a complete left-hand side ending in its operator, e.g.
// "guild_id = " or "LOWER(name) LIKE ". The matching argument list is ordered
// the same way as the expressions.
//
// # Example
//
//	Search([]string{"guild_id = ", "LOWER(name) = "})
//	// "guild_id = $1 AND LOWER(name) = $2", 3
func Search(predicates []string) (string, int) {
	parts := make([]string, 0, len(predicates))

	for i, predicate := range predicates {
		parts = append(parts, fmt.Sprintf("%s$%d", predicate, i+1))
	}

	return strings.Join(parts, " AND "), len(predicates) + 1
}

// Update builds a SET assignment list ("col = $n") for the given columns and
// returns the next unused parameter index, letting the caller continue the
// statement (typically a WHERE clause) with collision-free placeholders.
//
// Callers must pass at least one column; the empty subset is rejected upstream
// before a statement is ever assembled.
//
// # Example
//
//	Update([]string{"name", "content"})
//	// "name = $1, content = $2", 3
func Update(columns []string) (string, int) {
	parts := make([]string, 0, len(columns))

	for i, column := range columns {
		parts = append(parts, fmt.Sprintf("%s = $%d", column, i+1))
	}

	return strings.Join(parts, ", "), len(columns) + 1
}
