// Profiling:
// go build ./profile
// go tool pprof -http=":8000" -nodefraction=0.001 ./profile mem.pprof

package main

import (
	"github.com/TheBitDrifter/depot"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	depot.Register[comp1]()
	depot.Register[comp2]()
	for range rounds {
		w := depot.Factory.NewWorld()
		entities := make([]depot.Entity, 0, numEntities)
		for range iters {
			for range numEntities {
				w.Spawn(comp1{}, comp2{V: 1, W: 1})
			}
			entities = entities[:0]
			w.Run(func(e depot.Entity, c1 *comp1, c2 comp2) {
				entities = append(entities, e)
				c1.V += c2.V
				c1.W += c2.W
			})
			for _, e := range entities {
				w.Despawn(e)
			}
		}
	}
}
