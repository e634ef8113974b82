package bench

import (
	"testing"

	"github.com/TheBitDrifter/depot"
)

// go test -bench=. ./bench -benchmem -cpuprofile=depot.prof

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

func newBenchWorld() *depot.World {
	depot.Register[Position]()
	depot.Register[Velocity]()
	world := depot.Factory.NewWorld()
	for range nPosVel {
		world.Spawn(Position{}, Velocity{X: 1, Y: 1})
	}
	for range nPos {
		world.Spawn(Position{})
	}
	return world
}

func BenchmarkIterDepotCursor(b *testing.B) {
	b.StopTimer()

	velocity := depot.FactoryNewComponent[Velocity]()
	position := depot.FactoryNewComponent[Position]()
	world := newBenchWorld()

	query := depot.Factory.NewQuery()
	query.And(velocity, position)
	cursor := depot.Factory.NewCursor(query, world)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			pos := position.GetFromCursor(cursor)
			vel := velocity.GetFromCursor(cursor)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkIterDepotRun(b *testing.B) {
	b.StopTimer()
	world := newBenchWorld()
	system := func(pos *Position, vel Velocity) {
		pos.X += vel.X
		pos.Y += vel.Y
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		if err := world.Run(system); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkIterDepotForEach(b *testing.B) {
	b.StopTimer()
	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()
	world := newBenchWorld()
	filter := depot.NewArchetype(position.Metadata().ID, velocity.Metadata().ID)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		world.ForEachWithArchetypeSubset(filter, func(t *depot.Table, row int) {
			pos, _ := depot.TableGet[Position](t, row)
			vel, _ := depot.TableGet[Velocity](t, row)
			pos.X += vel.X
			pos.Y += vel.Y
		})
	}
}

func BenchmarkAddRemoveDepot(b *testing.B) {
	b.StopTimer()
	world := newBenchWorld()
	entities := make([]depot.Entity, 0, nPos)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		entities = entities[:0]
		world.Run(func(e depot.Entity, _ Position, _ depot.Without[Velocity]) {
			entities = append(entities, e)
		})
		for _, e := range entities {
			depot.AddComponent(world, e, Velocity{})
		}
		for _, e := range entities {
			depot.RemoveComponent[Velocity](world, e)
		}
	}
}
