/*
Package depot is an archetype-based entity-component store.

Entities are bare integer ids. Every entity lives in exactly one Table, the
table of its Archetype: the exact set of component types it holds. Tables
store each component type in its own densely packed Column, so iterating all
entities that share a set of components walks contiguous memory.

Core Concepts:

  - Entity: an integer id; 0 is the Tombstone that marks dead rows.
  - Component: a registered Go type attached to entities.
  - Archetype: a bitset of component ids, at most MaxComponents of them.
  - Table: the parallel columns of every entity with one archetype.
  - System: a func whose parameter types select tables and rows.

Basic Usage:

	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	depot.Register[Position]()
	depot.Register[Velocity]()

	world := depot.Factory.NewWorld()
	world.Spawn(Position{}, Velocity{X: 1})

	world.Run(func(pos *Position, vel Velocity) {
		pos.X += vel.X
		pos.Y += vel.Y
	})

Adding or removing components changes an entity's archetype and moves it to
another table. While a system, cursor or ForEach call is running those changes
are queued and applied, in order, when the outermost one returns.

A World is not safe for concurrent use.
*/
package depot
