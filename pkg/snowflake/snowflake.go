// Copyright (c) 2026 Sable. All rights reserved.

// Package snowflake wraps bwmarrin/snowflake to mint record identifiers.
//
// # Why snowflakes?
//
// Tag ids must be globally unique, time-sortable, and mintable without any
// coordination or storage round-trip. Snowflakes encode a millisecond
// timestamp, a node id, and a per-millisecond sequence, which keeps ids
// strictly increasing within one generator and collision-free across nodes.
package snowflake

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// chatEpoch is the platform epoch (2015-01-01T00:00:00Z) in Unix milliseconds,
// matching the id scheme of the chat platform the bot runs on.
const chatEpoch = 1420070400000

// Generator mints time-ordered unique identifiers.
//
// # Concurrency
//
// Generator is safe for concurrent use; the underlying node serializes the
// sequence counter internally.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator creates a Generator for the given node id.
//
// Node ids must be unique among concurrently running service instances
// (0-1023). Two instances sharing a node id can mint colliding ids.
func NewGenerator(nodeID int64) (*Generator, error) {
	snowflake.Epoch = chatEpoch

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake: invalid node id %d: %w", nodeID, err)
	}

	return &Generator{node: node}, nil
}

// Next returns a new identifier, strictly greater than any id previously
// returned by this Generator. It never blocks on I/O.
func (g *Generator) Next() int64 {
	return g.node.Generate().Int64()
}
